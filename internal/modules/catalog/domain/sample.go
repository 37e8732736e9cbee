package domain

// SampleMenu returns the built-in starter catalog shown to guests and seeded
// into brand-new accounts. The ids are local placeholders; seeding strips
// them so the store assigns permanent ones.
func SampleMenu() []MenuItem {
	return []MenuItem{
		{
			ID:          TemporaryID("1"),
			Name:        "Truffle Mushroom Risotto",
			Description: "Arborio rice slowly cooked with wild mushrooms, finished with white truffle oil and parmesan.",
			Price:       18.50,
			Category:    CategoryMainCourse,
			Image:       "https://picsum.photos/id/42/800/600",
		},
		{
			ID:          TemporaryID("2"),
			Name:        "Seared Scallops",
			Description: "Fresh Atlantic scallops seared to perfection with pea purée and crispy pancetta.",
			Price:       14.00,
			Category:    CategoryStarters,
			Image:       "https://picsum.photos/id/102/800/600",
		},
		{
			ID:          TemporaryID("3"),
			Name:        "Lava Chocolate Cake",
			Description: "Rich dark chocolate cake with a molten center, served with Madagascan vanilla gelato.",
			Price:       9.50,
			Category:    CategoryDesserts,
			Image:       "https://picsum.photos/id/106/800/600",
		},
		{
			ID:          TemporaryID("4"),
			Name:        "Signature Old Fashioned",
			Description: "Burbon aged in oak barrels, hints of orange peel and house-made aromatic bitters.",
			Price:       12.00,
			Category:    CategoryBeverages,
			Image:       "https://picsum.photos/id/163/800/600",
		},
		{
			ID:          TemporaryID("5"),
			Name:        "Garden Harvest Salad",
			Description: "Organic greens, heirloom tomatoes, cucumber, goat cheese, and balsamic glaze.",
			Price:       11.50,
			Category:    CategoryStarters,
			Image:       "https://picsum.photos/id/493/800/600",
		},
		{
			ID:          TemporaryID("6"),
			Name:        "Wagyu Beef Burger",
			Description: "Premium wagyu patty, caramelized onions, aged cheddar, and truffle aioli on brioche.",
			Price:       22.00,
			Category:    CategoryMainCourse,
			Image:       "https://picsum.photos/id/488/800/600",
		},
	}
}
