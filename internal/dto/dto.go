package dto

type Recipient struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	Country string `json:"country"`
	Zip     string `json:"zip"`
}

type CheckoutRequest struct {
	ItemID    string    `json:"item_id"`
	Size      string    `json:"size"`
	Quantity  int32     `json:"quantity"`
	Recipient Recipient `json:"recipient"`
}

type CheckoutResponse struct {
	RedirectURL string `json:"redirect_url"`
}

type TokenRequest struct {
	UserID string `json:"user_id"`
}

type TokenResponse struct {
	Token string `json:"token"`
}
