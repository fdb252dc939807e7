package uuid

import (
	"database/sql/driver"

	"github.com/gofrs/uuid/v5"
)

type UUID uuid.UUID

var Nil = UUID(uuid.Nil)

func NewV4() UUID {
	return UUID(uuid.Must(uuid.NewV4()))
}

func (u UUID) IsNil() bool {
	return u == Nil
}

func (u UUID) String() string {
	return uuid.UUID(u).String()
}

func (u UUID) MarshalText() ([]byte, error) {
	return uuid.UUID(u).MarshalText()
}

func (u *UUID) UnmarshalText(text []byte) error {
	return (*uuid.UUID)(u).UnmarshalText(text)
}

func (u UUID) Value() (driver.Value, error) {
	return uuid.UUID(u).Value()
}

func (u *UUID) Scan(src any) error {
	return (*uuid.UUID)(u).Scan(src)
}
