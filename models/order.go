package models

// Order is a placed, priced snapshot of a cart. It is never edited after
// creation.
type Order struct {
	ID         string            `bson:"id" json:"id"`
	UserID     string            `bson:"user_id" json:"user_id"`
	ProductIDs []CartItem        `bson:"product_ids" json:"product_ids"`
	AllProduct []ProductSnapshot `bson:"all_product" json:"all_product"`
	Amount     float64           `bson:"amount" json:"amount"`
	IsPlaced   bool              `bson:"is_placed" json:"is_placed"`
}
