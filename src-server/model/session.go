package model

import "github.com/uptrace/bun"

type Session struct {
	bun.BaseModel `bun:"table:sessions"`

	Secret    string `bun:"secret,pk,notnull,unique"`
	UserID    string `bun:"user_id,notnull"`
	CreatedAt int64  `bun:"created_at,notnull"`
	IpAddress string `bun:"ip_address"`
	UserAgent string `bun:"user_agent"`
}
