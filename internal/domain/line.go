package domain

// MarketLine is the posted market for one game.
// Corresponds to market_lines table in PostgreSQL.
// Spread is home-perspective: negative means the home team is favored.
type MarketLine struct {
	ID        int64    // BIGSERIAL primary key
	GameID    string   // FK to games
	League    string   // league identifier
	Spread    *float64 // home spread (nullable when no spread market)
	Total     *float64 // over/under total (nullable)
	Source    string   // book or consensus identifier
	CreatedAt int64    // record creation timestamp (ms)
}

// Market identifies which betting market a signal or pick refers to.
type Market string

const (
	MarketSpread    Market = "SPREAD"
	MarketTotal     Market = "TOTAL"
	MarketMoneyline Market = "MONEYLINE"
)
