package event

const (
	TopicProductCreated = "product.created"
	TopicStockReserved  = "cart.stock_reserved"
)

type ProductCreatedEvent struct {
	ProductID string  `json:"product_id"`
	Title     string  `json:"title"`
	Code      string  `json:"code"`
	Price     float64 `json:"price"`
	Stock     int     `json:"stock"`
}

// StockReservedEvent is published after a cart operation successfully
// decrements a product's stock.
type StockReservedEvent struct {
	CartID         string `json:"cart_id"`
	ProductID      string `json:"product_id"`
	Quantity       int    `json:"quantity"`
	RemainingStock int    `json:"remaining_stock"`
}
