package category

import "storefront/domain"

// Category is the public shape of a category.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
	Code string `json:"code"`
}

func Serialize(c domain.Category) Category {
	return Category{
		ID:   c.ID,
		Name: c.Name,
		Slug: c.Slug,
		Code: c.Code,
	}
}
