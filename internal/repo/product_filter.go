package repo

type ProductFilter struct {
	Name     string
	MinQty   *int
	MaxQty   *int
	LowStock bool
	Offset   *int
	Limit    *int
}
