package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// Open connects to MySQL and verifies the connection.
func Open(user, pass, host, port, name string) (*sql.DB, error) {
	auth := user
	if pass != "" {
		auth = fmt.Sprintf("%s:%s", user, pass)
	}
	// parseTime=true -> DATETIME -> time.Time | loc=UTC keeps times consistent
	dsn := fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
		auth, host, port, name)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	// Pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(30 * time.Minute)

	// Ping with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}
	return db, nil
}

// EnsureSchema creates the application tables when they do not exist.
// The UNIQUE key on booking_slots (ground, field, date, start hour) is
// the hard guarantee against double booking: two racing writers both
// pass the handler-level conflict check, but only one insert survives.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
			name VARCHAR(190) NOT NULL,
			email VARCHAR(190) NOT NULL,
			phone VARCHAR(32) NOT NULL DEFAULT '',
			password_hash VARCHAR(100) NOT NULL,
			role VARCHAR(16) NOT NULL DEFAULT 'USER',
			is_active TINYINT(1) NOT NULL DEFAULT 1,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			UNIQUE KEY uq_users_email (email)
		) ENGINE=InnoDB`,
		`CREATE TABLE IF NOT EXISTS refresh_tokens (
			id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
			user_id BIGINT UNSIGNED NOT NULL,
			token_hash CHAR(64) NOT NULL,
			expires_at DATETIME NOT NULL,
			revoked_at DATETIME NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE KEY uq_refresh_hash (token_hash),
			KEY idx_refresh_user (user_id),
			CONSTRAINT fk_refresh_user FOREIGN KEY (user_id) REFERENCES users(id)
		) ENGINE=InnoDB`,
		`CREATE TABLE IF NOT EXISTS payment_cards (
			id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
			user_id BIGINT UNSIGNED NOT NULL,
			brand VARCHAR(32) NOT NULL,
			last4 CHAR(4) NOT NULL,
			holder VARCHAR(190) NOT NULL DEFAULT '',
			expiry_month TINYINT UNSIGNED NOT NULL,
			expiry_year SMALLINT UNSIGNED NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			KEY idx_cards_user (user_id),
			CONSTRAINT fk_cards_user FOREIGN KEY (user_id) REFERENCES users(id)
		) ENGINE=InnoDB`,
		`CREATE TABLE IF NOT EXISTS grounds (
			id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
			owner_id BIGINT UNSIGNED NOT NULL,
			name VARCHAR(190) NOT NULL,
			ground_type VARCHAR(64) NOT NULL DEFAULT '',
			description TEXT NULL,
			latitude DOUBLE NOT NULL DEFAULT 0,
			longitude DOUBLE NOT NULL DEFAULT 0,
			price_per_hour INT UNSIGNED NOT NULL DEFAULT 0,
			open_time VARCHAR(5) NOT NULL DEFAULT '08:00',
			close_time VARCHAR(5) NOT NULL DEFAULT '22:00',
			available_weekdays VARCHAR(32) NOT NULL DEFAULT '0,1,2,3,4,5,6',
			is_active TINYINT(1) NOT NULL DEFAULT 1,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			UNIQUE KEY uq_grounds_owner_name (owner_id, name),
			CONSTRAINT fk_grounds_owner FOREIGN KEY (owner_id) REFERENCES users(id)
		) ENGINE=InnoDB`,
		`CREATE TABLE IF NOT EXISTS ground_fields (
			id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
			ground_id BIGINT UNSIGNED NOT NULL,
			field_number INT UNSIGNED NOT NULL,
			is_available TINYINT(1) NOT NULL DEFAULT 1,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			UNIQUE KEY uq_fields_ground_number (ground_id, field_number),
			CONSTRAINT fk_fields_ground FOREIGN KEY (ground_id) REFERENCES grounds(id) ON DELETE CASCADE
		) ENGINE=InnoDB`,
		`CREATE TABLE IF NOT EXISTS bookings (
			id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
			reference CHAR(36) NOT NULL,
			user_id BIGINT UNSIGNED NOT NULL,
			ground_id BIGINT UNSIGNED NOT NULL,
			field_number INT UNSIGNED NOT NULL,
			booking_date DATE NOT NULL,
			total_price INT UNSIGNED NOT NULL DEFAULT 0,
			status VARCHAR(16) NOT NULL DEFAULT 'CONFIRMED',
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			UNIQUE KEY uq_bookings_reference (reference),
			KEY idx_bookings_user (user_id),
			KEY idx_bookings_key (ground_id, field_number, booking_date),
			CONSTRAINT fk_bookings_user FOREIGN KEY (user_id) REFERENCES users(id),
			CONSTRAINT fk_bookings_ground FOREIGN KEY (ground_id) REFERENCES grounds(id)
		) ENGINE=InnoDB`,
		`CREATE TABLE IF NOT EXISTS booking_slots (
			id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
			booking_id BIGINT UNSIGNED NOT NULL,
			ground_id BIGINT UNSIGNED NOT NULL,
			field_number INT UNSIGNED NOT NULL,
			booking_date DATE NOT NULL,
			start_hour TINYINT UNSIGNED NOT NULL,
			slot_label VARCHAR(16) NOT NULL,
			UNIQUE KEY uq_slot_occupancy (ground_id, field_number, booking_date, start_hour),
			KEY idx_slots_booking (booking_id),
			CONSTRAINT fk_slots_booking FOREIGN KEY (booking_id) REFERENCES bookings(id) ON DELETE CASCADE
		) ENGINE=InnoDB`,
		`CREATE TABLE IF NOT EXISTS reviews (
			id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
			user_id BIGINT UNSIGNED NOT NULL,
			ground_id BIGINT UNSIGNED NOT NULL,
			rating TINYINT UNSIGNED NOT NULL,
			comment TEXT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			UNIQUE KEY uq_reviews_user_ground (user_id, ground_id),
			CONSTRAINT fk_reviews_user FOREIGN KEY (user_id) REFERENCES users(id),
			CONSTRAINT fk_reviews_ground FOREIGN KEY (ground_id) REFERENCES grounds(id) ON DELETE CASCADE
		) ENGINE=InnoDB`,
	}
	for _, q := range stmts {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
