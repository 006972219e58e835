package repository

import "errors"

// общие ошибки хранилищ портфелей, не зависят от драйвера
var (
	ErrAlreadyExists = errors.New("portfolio already exists")
	ErrNotFound      = errors.New("portfolio not found")
)
