package model

// Template holds reusable subject/body defaults. It is consulted only at
// intake time to pre-fill an incoming request; the dispatcher never reads
// it.
type Template struct {
	ID      int    `db:"id" json:"id"`
	Name    string `db:"name" json:"name"`
	Subject string `db:"subject" json:"subject"`
	Body    string `db:"body" json:"body"`
}
