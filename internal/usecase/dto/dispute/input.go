package disputedto

type RequestRefundInput struct {
	OrderID        string
	ActorID        string
	Amount         int64
	Reason         string
	IdempotencyKey string
}

type ResolveRefundInput struct {
	EntryID  string
	ActorID  string
	Decision string // "approve" | "reject"
	Notes    string
}
