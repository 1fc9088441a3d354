package payoutdto

type RequestPayoutInput struct {
	FreelancerID   string
	Amount         int64
	Currency       string
	IdempotencyKey string
}
