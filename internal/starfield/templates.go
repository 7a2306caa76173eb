package starfield

// DefaultTemplates returns the four constellation shapes used on the site.
// A fresh slice is returned on each call so callers may reorder it freely.
func DefaultTemplates() []Template {
	return []Template{
		{
			Name: "Big Dipper",
			Points: []Point{
				{0, 2}, {4, 0}, {7, 1}, {10, 4},
				{11, 9}, {16, 11}, {16, 5},
			},
			Edges:  [][2]int{{0, 1}, {1, 2}, {2, 3}, {3, 4}, {4, 5}, {5, 6}, {6, 3}},
			Width:  16,
			Height: 12,
		},
		{
			Name: "Orion",
			Points: []Point{
				{8, 0}, {2, 3}, {14, 3},
				{6, 11}, {8, 12}, {10, 13},
				{3, 21}, {13, 20},
			},
			Edges:  [][2]int{{0, 1}, {0, 2}, {1, 3}, {2, 5}, {3, 4}, {4, 5}, {3, 6}, {5, 7}},
			Width:  16,
			Height: 22,
		},
		{
			Name:   "Cassiopeia",
			Points: []Point{{0, 2}, {5, 8}, {10, 4}, {15, 9}, {17, 0}},
			Edges:  [][2]int{{0, 1}, {1, 2}, {2, 3}, {3, 4}},
			Width:  17,
			Height: 10,
		},
		{
			Name:   "Cygnus",
			Points: []Point{{8, 0}, {8, 7}, {8, 17}, {0, 5}, {16, 9}},
			Edges:  [][2]int{{0, 1}, {1, 2}, {3, 1}, {1, 4}},
			Width:  16,
			Height: 17,
		},
	}
}
