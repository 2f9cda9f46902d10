package models

// Book is a catalog entry plus its inventory counters.
// AvailableCopies is owned by the circulation store; every other field is
// catalog data.
type Book struct {
	BookID          int64  `json:"book_id"`
	ISBN            string `json:"isbn"`
	Title           string `json:"title"`
	Author          string `json:"author"`
	Publisher       string `json:"publisher"`
	PublishYear     int    `json:"publish_year"`
	Category        string `json:"category"`
	TotalCopies     int    `json:"total_copies"`
	AvailableCopies int    `json:"available_copies"`
	Location        string `json:"location"`
}
