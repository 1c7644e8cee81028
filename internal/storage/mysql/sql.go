package mysql

// Schema bootstrap. Safe to run on every start; the original service created
// its tables the same way at boot instead of carrying migration tooling.

const createHotelsSQL = `
CREATE TABLE IF NOT EXISTS hotels (
  id          BIGINT PRIMARY KEY AUTO_INCREMENT,
  name        VARCHAR(100) NOT NULL,
  phone_number VARCHAR(20) NOT NULL,
  whatsapp    VARCHAR(20) NOT NULL,
  hotel_name  VARCHAR(100) NOT NULL,
  description TEXT NULL,
  address     VARCHAR(200) NULL,
  created_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4
`

const createItemsSQL = `
CREATE TABLE IF NOT EXISTS items (
  id          BIGINT PRIMARY KEY AUTO_INCREMENT,
  hotel_id    BIGINT NOT NULL,
  name        VARCHAR(100) NOT NULL,
  description TEXT NULL,
  created_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
  CONSTRAINT fk_items_hotel FOREIGN KEY (hotel_id) REFERENCES hotels(id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4
`

const createUsersSQL = `
CREATE TABLE IF NOT EXISTS users (
  id         BIGINT PRIMARY KEY AUTO_INCREMENT,
  name       VARCHAR(100) NOT NULL,
  phone      VARCHAR(20) NOT NULL,
  created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4
`

const insertHotelSQL = `
INSERT INTO hotels (name, phone_number, whatsapp, hotel_name, description, address)
VALUES (?, ?, ?, ?, ?, ?)
`

const insertItemSQL = `
INSERT INTO items (hotel_id, name, description)
VALUES (?, ?, ?)
`

const insertUserSQL = `
INSERT INTO users (name, phone)
VALUES (?, ?)
`

const getHotelSQL = `
SELECT id, name, phone_number, whatsapp, hotel_name, description, address, created_at
FROM hotels
WHERE id = ?
`

const getItemsSQL = `
SELECT id, hotel_id, name, description, created_at
FROM items
WHERE hotel_id = ?
ORDER BY id
`

const listHotelsSQL = `
SELECT id, name, phone_number, whatsapp, hotel_name, description, address, created_at
FROM hotels
ORDER BY id DESC
LIMIT ?
`
