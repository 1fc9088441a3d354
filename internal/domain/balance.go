package domain

// Balance is the derived view of a freelancer's money. It is never
// stored: the aggregator recomputes it from the ledger on demand.
type Balance struct {
	FreelancerID string
	// Available is what the freelancer can withdraw: completed
	// releases minus completed payouts.
	Available int64
	// Pending is held or partially released escrow the freelancer
	// will eventually receive but cannot withdraw yet.
	Pending  int64
	Currency string
}
