package ingest

import (
	"math"
	"strconv"
	"strings"

	"bookstore/internal/book"
)

// Deduplicate splits rows into books to store and rejections, in file order.
// A row is a duplicate when its key is in existing or was accepted earlier in
// the same batch. existing is only read.
func Deduplicate(existing book.KeySet, rows []Row, ownerID int64) Result {
	res := Result{
		Accepted: []book.Book{},
		Rejected: []Rejection{},
	}
	seen := make(book.KeySet, len(rows))

	for _, row := range rows {
		key := book.KeyOf(row.Title, row.Author)
		reject := func(reason Reason) {
			res.Rejected = append(res.Rejected, Rejection{
				Line:   row.Line,
				Title:  key.Title,
				Author: key.Author,
				Reason: reason,
			})
		}

		if key.Title == "" || key.Author == "" {
			reject(ReasonMissingField)
			continue
		}
		if existing.Has(key) || seen.Has(key) {
			reject(ReasonDuplicate)
			continue
		}
		price, ok := parsePrice(row.Price)
		if !ok {
			reject(ReasonInvalidPrice)
			continue
		}

		seen[key] = struct{}{}
		res.Accepted = append(res.Accepted, book.Book{
			Title:         key.Title,
			Author:        key.Author,
			Price:         price,
			PublishedDate: strings.TrimSpace(row.PublishedDate),
			SellerID:      ownerID,
		})
	}
	return res
}

func parsePrice(raw string) (float64, bool) {
	price, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(price) || math.IsInf(price, 0) {
		return 0, false
	}
	if price < 0 || price > book.MaxPrice {
		return 0, false
	}
	return price, true
}
