package database

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users
(
    id            text PRIMARY KEY NOT NULL,
    name          text             NOT NULL,
    password_hash text             NOT NULL
);`,

	`CREATE TABLE IF NOT EXISTS channels
(
    id        serial PRIMARY KEY NOT NULL,
    name      text               NOT NULL,
    limit_num int                NOT NULL CHECK (limit_num >= 1),
    owner_id  text               NOT NULL REFERENCES users (id)
);`,
}
