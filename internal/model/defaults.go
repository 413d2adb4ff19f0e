package model

// Fixed content used by the add and update actions.

// DefaultBatch returns the three candidates created by the add action, in order.
func DefaultBatch() []Draft {
	return []Draft{
		{
			Title:    "Cat Bella",
			Subtitle: "$200",
			Note:     "A beautiful Siamese cat with blue eyes!",
			ImageRef: "https://i.pinimg.com/564x/f8/ef/50/f8ef50d693b00f946c60028eb74f6f7b.jpg",
		},
		{
			Title:    "Cat Kitty",
			Subtitle: "$150",
			Note:     "An adorable fluffy Persian cat!",
			ImageRef: "https://i.pinimg.com/736x/57/d9/11/57d911723a19239bd3d3a1c569caaab7.jpg",
		},
		{
			Title:    "Cat Andromeda",
			Subtitle: "$300",
			Note:     "A majestic Maine Coon with a thick coat!",
			ImageRef: "https://i.pinimg.com/564x/b0/12/0c/b0120cd6e0e37f012f7b35d4a2e0dc42.jpg",
		},
	}
}

// DefaultUpdate is the replacement applied by the update action.
func DefaultUpdate() Patch {
	return FullPatch(Draft{
		Title:    "Cat Lovers",
		Subtitle: "$250",
		Note:     "The ultimate companion for cat enthusiasts!",
		ImageRef: "https://i.pinimg.com/564x/e3/8a/1e/e38a1ed84ddd8d49e4b33290750120dc.jpg",
	})
}
