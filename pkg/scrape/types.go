package scrape

// Direction tells whether a movement debits or credits the account.
type Direction string

const (
	Debit  Direction = "debit"
	Credit Direction = "credit"
)

// TransactionRecord is one extracted financial movement. Amount is always
// non-negative; the sign is carried by Direction alone.
type TransactionRecord struct {
	Date        string    `json:"date"` // canonical DD/MM/YYYY
	Description string    `json:"description"`
	Reference   string    `json:"reference,omitempty"`
	Amount      float64   `json:"amount"`
	Direction   Direction `json:"direction"`
	Balance     *float64  `json:"balance,omitempty"`
}

// AccountSummary holds independently extracted account-level fields. All
// fields are nullable; a failed extraction leaves them nil.
type AccountSummary struct {
	CurrentBalance  *float64 `json:"current_balance,omitempty"`
	PreviousBalance *float64 `json:"previous_balance,omitempty"`
	AccountNumber   *string  `json:"account_number,omitempty"`
	AccountType     *string  `json:"account_type,omitempty"`
}

// Candidate is a scored table-like region. Ephemeral: produced and
// consumed within one extraction call.
type Candidate struct {
	RowCount    int
	ColumnCount int
	Headers     []string
	Score       int

	index int // position among the document's tables
}

// Metadata describes how an extraction went.
type Metadata struct {
	// Method is "table" for the main path, "fallback" for the free-text scan
	Method string `json:"method"`

	// PagesVisited counts pagination steps actually taken
	PagesVisited int `json:"pages_visited"`

	// RowsSkipped counts rows dropped for missing date or description
	RowsSkipped int `json:"rows_skipped"`
}

// Result bundles extracted records with the account summary and metadata.
type Result struct {
	Records []TransactionRecord `json:"records"`
	Summary AccountSummary      `json:"summary"`
	Meta    Metadata            `json:"metadata"`
}

// Options tune the engine. Zero values take the defaults below.
type Options struct {
	// ScoreThreshold is the minimum candidate score; tables at or below
	// it are ignored
	ScoreThreshold int

	// MaxPages bounds pagination even under a misdetected indicator
	MaxPages int

	// FallbackCap bounds low-confidence records from the free-text scan
	FallbackCap int

	// SettleTimeout bounds the wait after a pagination click, in ms
	SettleTimeout float64
}

const (
	defaultScoreThreshold = 3
	defaultMaxPages       = 10
	defaultFallbackCap    = 50
	defaultSettleTimeout  = 10000.0
)

func (o Options) withDefaults() Options {
	if o.ScoreThreshold == 0 {
		o.ScoreThreshold = defaultScoreThreshold
	}
	if o.MaxPages <= 0 {
		o.MaxPages = defaultMaxPages
	}
	if o.FallbackCap <= 0 {
		o.FallbackCap = defaultFallbackCap
	}
	if o.SettleTimeout <= 0 {
		o.SettleTimeout = defaultSettleTimeout
	}
	return o
}
