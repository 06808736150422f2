// Package db embeds the database schema applied at startup.
package db

import _ "embed"

// Schema contains the DDL for the products, orders and order_lines tables.
//
//go:embed migrations/001_schema.sql
var Schema string
