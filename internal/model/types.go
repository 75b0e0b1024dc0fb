// Package model defines domain types shared by the admin and shop servers.
package model

import "time"

// Product is one catalog entry as persisted in the products file.
type Product struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Price          *float64 `json:"price,omitempty"`
	Description    *string  `json:"description,omitempty"`
	Categories     []string `json:"categories,omitempty"`
	InStock        bool     `json:"inStock"`
	Rating         float64  `json:"rating,omitempty"`
	Reviews        []Review `json:"reviews,omitempty"`
	ManufacturerID string   `json:"manufacturerId,omitempty"`
}

// ProductFields carries client-supplied product fields. Every field is
// optional so the same shape serves both creation and partial update; the id
// is never part of it and cannot be overridden.
type ProductFields struct {
	Name           *string   `json:"name,omitempty"`
	Price          *float64  `json:"price,omitempty"`
	Description    *string   `json:"description,omitempty"`
	Categories     *[]string `json:"categories,omitempty"`
	InStock        *bool     `json:"inStock,omitempty"`
	Rating         *float64  `json:"rating,omitempty"`
	ManufacturerID *string   `json:"manufacturerId,omitempty"`
}

// Review is a customer review of a product.
type Review struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Rating    int       `json:"rating"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"createdAt"`
}

// Manufacturer describes a product maker.
type Manufacturer struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Country string `json:"country"`
	Website string `json:"website"`
}

// Envelope is the inbound realtime message shape. Unknown fields are ignored
// so clients can evolve their payloads without breaking the hub.
type Envelope struct {
	Type   string `json:"type"`
	Sender string `json:"sender"`
	Text   string `json:"text"`
}

// ChatMessage is the outbound chat broadcast. The timestamp is stamped by the
// server; any client-supplied timestamp is discarded.
type ChatMessage struct {
	Type            string `json:"type"`
	Sender          string `json:"sender"`
	Text            string `json:"text"`
	ServerTimestamp string `json:"serverTimestamp"`
}

// DataChanged is the outbound refresh broadcast carrying the full product
// list after a reload.
type DataChanged struct {
	Type     string    `json:"type"`
	Products []Product `json:"products"`
}
