package storage

import "market-scraper/models"

// DatasetWriter is the interface any canonical dataset sink must satisfy.
type DatasetWriter interface {
	Write(table *models.Table) error
	Close() error
}

// DatasetReader loads a previously persisted canonical dataset.
type DatasetReader interface {
	FetchAll() (*models.Table, error)
}

// RawListingWriter is the interface for persisting unprocessed scraped data.
type RawListingWriter interface {
	WriteRaw(listings []models.RawListing) error
	Close() error
}

// DatasetStore is a database sink that can also serve the dataset back.
type DatasetStore interface {
	DatasetWriter
	DatasetReader
}
