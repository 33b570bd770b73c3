package domain

// RawProfile is the behavioral profile of one user as received per request.
// All features are non-negative; JSON names follow the training dataset columns.
type RawProfile struct {
	Recency        float64 `json:"Recency"`
	Frequency      float64 `json:"Frequency"`
	Monetary       float64 `json:"Monetary"`
	AvgItems       float64 `json:"Avg_Items"`
	UniqueProducts float64 `json:"Unique_Products"`
	WishlistCount  float64 `json:"Wishlist_Count"`
	AddToCartCount float64 `json:"Add_to_Cart_Count"`
	PageViews      float64 `json:"Page_Views"`
}
