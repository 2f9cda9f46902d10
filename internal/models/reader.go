package models

import "time"

type Reader struct {
	ReaderID     int64     `json:"reader_id"`
	Name         string    `json:"name"`
	Gender       string    `json:"gender"`
	Phone        string    `json:"phone"`
	Email        string    `json:"email"`
	Address      string    `json:"address"`
	RegisterDate time.Time `json:"register_date"`
	Status       string    `json:"status"`
}
