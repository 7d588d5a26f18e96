package shufersal

type searchResponse struct {
	Results    []searchItem     `json:"results"`
	Pagination searchPagination `json:"pagination"`
}

type searchPagination struct {
	TotalNumberOfResults int `json:"totalNumberOfResults"`
	NumberOfPages        int `json:"numberOfPages"`
	CurrentPage          int `json:"currentPage"`
}

type searchItem struct {
	Code         string       `json:"code"`
	Name         string       `json:"name"`
	Description  string       `json:"description"`
	BrandName    string       `json:"brandName"`
	CategoryName string       `json:"categoryName"`
	URL          string       `json:"url"`
	Price        valueField   `json:"price"`
	Images       []imageField `json:"images"`
	Stock        stockField   `json:"stock"`
}

type valueField struct {
	Value float64 `json:"value"`
}

type imageField struct {
	URL    string `json:"url"`
	Format string `json:"format"`
}

type stockField struct {
	StockLevelStatus string `json:"stockLevelStatus"`
}

type miniCartResponse struct {
	Entries []cartEntry `json:"entries"`
}

type cartEntry struct {
	EntryNumber int         `json:"entryNumber"`
	Quantity    float64     `json:"quantity"`
	BasePrice   valueField  `json:"basePrice"`
	TotalPrice  valueField  `json:"totalPrice"`
	Product     cartProduct `json:"product"`
}

type cartProduct struct {
	Code   string       `json:"code"`
	Name   string       `json:"name"`
	Images []imageField `json:"images"`
}
