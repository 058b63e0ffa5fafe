package value

// ItemKey groups listings and claims of the same item.
type ItemKey struct {
	ItemClass string
	ItemID    string
}

func (k ItemKey) String() string {
	return k.ItemClass + "/" + k.ItemID
}
