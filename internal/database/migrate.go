package database

import (
	"context"
	"database/sql"
	"fmt"
)

// Migrate creates the application schema when it does not exist yet.
// Statements are idempotent (CREATE TABLE IF NOT EXISTS) so the server can
// run them on every start.  The unique keys declared here are load-bearing:
// uniq_seat_per_performance is the sole mutual-exclusion mechanism for
// concurrent seat booking, and uniq_show_time_per_hall prevents
// double-booking a hall at one timestamp.
func Migrate(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id            BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
			email         VARCHAR(255) NOT NULL,
			password_hash VARCHAR(255) NOT NULL,
			first_name    VARCHAR(100) NOT NULL DEFAULT '',
			last_name     VARCHAR(100) NOT NULL DEFAULT '',
			role          VARCHAR(16)  NOT NULL DEFAULT 'CUSTOMER',
			is_active     TINYINT(1)   NOT NULL DEFAULT 1,
			created_at    TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at    TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			UNIQUE KEY uniq_users_email (email)
		) ENGINE=InnoDB`,

		`CREATE TABLE IF NOT EXISTS refresh_tokens (
			id         BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
			user_id    BIGINT UNSIGNED NOT NULL,
			token_hash CHAR(64) NOT NULL,
			expires_at DATETIME NOT NULL,
			revoked_at DATETIME NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			KEY idx_refresh_tokens_hash (token_hash),
			CONSTRAINT fk_refresh_tokens_user FOREIGN KEY (user_id)
				REFERENCES users (id) ON DELETE CASCADE
		) ENGINE=InnoDB`,

		`CREATE TABLE IF NOT EXISTS actors (
			id         BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
			first_name VARCHAR(100) NOT NULL,
			last_name  VARCHAR(100) NOT NULL
		) ENGINE=InnoDB`,

		`CREATE TABLE IF NOT EXISTS genres (
			id   BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
			name VARCHAR(100) NOT NULL,
			UNIQUE KEY uniq_genres_name (name)
		) ENGINE=InnoDB`,

		`CREATE TABLE IF NOT EXISTS theatre_halls (
			id           BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
			name         VARCHAR(100) NOT NULL,
			seat_rows    INT UNSIGNED NOT NULL,
			seats_in_row INT UNSIGNED NOT NULL,
			UNIQUE KEY uniq_theatre_halls_name (name)
		) ENGINE=InnoDB`,

		`CREATE TABLE IF NOT EXISTS plays (
			id           BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
			title        VARCHAR(150) NOT NULL,
			description  TEXT NOT NULL,
			duration_min INT UNSIGNED NOT NULL,
			image        VARCHAR(255) NULL
		) ENGINE=InnoDB`,

		`CREATE TABLE IF NOT EXISTS play_actors (
			play_id  BIGINT UNSIGNED NOT NULL,
			actor_id BIGINT UNSIGNED NOT NULL,
			PRIMARY KEY (play_id, actor_id),
			CONSTRAINT fk_play_actors_play FOREIGN KEY (play_id)
				REFERENCES plays (id) ON DELETE CASCADE,
			CONSTRAINT fk_play_actors_actor FOREIGN KEY (actor_id)
				REFERENCES actors (id) ON DELETE CASCADE
		) ENGINE=InnoDB`,

		`CREATE TABLE IF NOT EXISTS play_genres (
			play_id  BIGINT UNSIGNED NOT NULL,
			genre_id BIGINT UNSIGNED NOT NULL,
			PRIMARY KEY (play_id, genre_id),
			CONSTRAINT fk_play_genres_play FOREIGN KEY (play_id)
				REFERENCES plays (id) ON DELETE CASCADE,
			CONSTRAINT fk_play_genres_genre FOREIGN KEY (genre_id)
				REFERENCES genres (id) ON DELETE CASCADE
		) ENGINE=InnoDB`,

		// play FK is RESTRICT: a play cannot be deleted while performances
		// reference it.  Hall FK cascades; hall deletion is additionally
		// guarded at the handler level while future performances exist.
		`CREATE TABLE IF NOT EXISTS performances (
			id        BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
			play_id   BIGINT UNSIGNED NOT NULL,
			hall_id   BIGINT UNSIGNED NOT NULL,
			show_time DATETIME NOT NULL,
			UNIQUE KEY uniq_show_time_per_hall (hall_id, show_time),
			KEY idx_performances_show_time (show_time),
			CONSTRAINT fk_performances_play FOREIGN KEY (play_id)
				REFERENCES plays (id) ON DELETE RESTRICT,
			CONSTRAINT fk_performances_hall FOREIGN KEY (hall_id)
				REFERENCES theatre_halls (id) ON DELETE CASCADE
		) ENGINE=InnoDB`,

		`CREATE TABLE IF NOT EXISTS reservations (
			id         BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
			user_id    BIGINT UNSIGNED NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			KEY idx_reservations_user (user_id, created_at),
			CONSTRAINT fk_reservations_user FOREIGN KEY (user_id)
				REFERENCES users (id) ON DELETE CASCADE
		) ENGINE=InnoDB`,

		`CREATE TABLE IF NOT EXISTS tickets (
			id             BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
			reservation_id BIGINT UNSIGNED NOT NULL,
			performance_id BIGINT UNSIGNED NOT NULL,
			row_num        INT UNSIGNED NOT NULL,
			seat_num       INT UNSIGNED NOT NULL,
			UNIQUE KEY uniq_seat_per_performance (performance_id, row_num, seat_num),
			CONSTRAINT fk_tickets_reservation FOREIGN KEY (reservation_id)
				REFERENCES reservations (id) ON DELETE CASCADE,
			CONSTRAINT fk_tickets_performance FOREIGN KEY (performance_id)
				REFERENCES performances (id) ON DELETE CASCADE
		) ENGINE=InnoDB`,
	}

	for i, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate statement %d: %w", i, err)
		}
	}
	return nil
}
