package order

import (
	"github.com/gofrs/uuid"

	"github.com/shelfline/bookmarket/internal/money"
)

// pricedLine is a cart line joined with the locked book row it was validated
// against.
type pricedLine struct {
	BookID   uuid.UUID
	Title    string
	Quantity int
	Price    money.Cents
	SellerID uuid.UUID
}

// sellerGroup collects one seller's lines of a cart.
type sellerGroup struct {
	SellerID uuid.UUID
	Lines    []pricedLine
	Total    money.Cents
}

// groupBySeller splits priced cart lines into per-seller groups. Groups come
// out in first-occurrence order of each seller while scanning the lines top to
// bottom; lines keep their relative order within a group.
func groupBySeller(lines []pricedLine) []sellerGroup {
	groups := make([]sellerGroup, 0, 1)
	index := make(map[uuid.UUID]int, 1)

	for _, line := range lines {
		i, ok := index[line.SellerID]
		if !ok {
			i = len(groups)
			index[line.SellerID] = i
			groups = append(groups, sellerGroup{SellerID: line.SellerID})
		}
		groups[i].Lines = append(groups[i].Lines, line)
		groups[i].Total += line.Price.Mul(line.Quantity)
	}

	return groups
}
