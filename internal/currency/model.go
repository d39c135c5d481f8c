package currency

// Currency is one entry of the shared id to ISO code directory.
type Currency struct {
	ID   int64  `json:"id"`
	Code string `json:"code"`
	Name string `json:"name,omitempty"`
}
