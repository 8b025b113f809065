package domain

// Category is the semantic bucket a raw status string maps to.
type Category string

const (
	// CategoryDelivered indicates the shipment reached the recipient.
	CategoryDelivered Category = "delivered"
	// CategoryError indicates the lookup failed or the courier reported a problem.
	CategoryError Category = "error"
	// CategoryOther covers everything in between (in transit, at terminal, ...).
	CategoryOther Category = "other"
)

// KeywordTable holds the substrings used to classify raw status text.
// The backend serves the same table so client-side coloring and
// filtering stay in sync with server-side filtering.
type KeywordTable struct {
	// Delivered keywords take precedence over Error keywords.
	Delivered []string `json:"delivered"`
	// Error keywords mark failed lookups and courier-reported problems.
	Error []string `json:"error"`
}

// Empty reports whether the table carries no keywords at all.
func (t KeywordTable) Empty() bool {
	return len(t.Delivered) == 0 && len(t.Error) == 0
}

// DefaultKeywords returns the built-in table used until (and unless) a
// server-provided table replaces it. Korean couriers report statuses in
// Korean, hence the mixed-language entries.
func DefaultKeywords() KeywordTable {
	return KeywordTable{
		Delivered: []string{
			"delivered",
			"배송완료",
			"배송 완료",
			"배달완료",
			"배달 완료",
			"고객에게 전달",
			"수령완료",
		},
		Error: []string{
			"error",
			"not found",
			"notfound",
			"fail",
			"failed",
			"조회불가",
			"unavailable",
			"오류",
			"실패",
			"등록되지",
			"검색 불가",
			"존재하지 않음",
			"없음",
		},
	}
}
