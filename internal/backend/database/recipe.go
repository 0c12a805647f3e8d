package database

// Recipe is a persisted recipe row. Ingredients and Directions hold
// Markdown text; rendering happens in the frontend.
type Recipe struct {
	ID          string `db:"id"`
	Name        string `db:"name"`
	Category    string `db:"category"`
	Description string `db:"description"`
	Ingredients string `db:"ingredients"`
	Directions  string `db:"directions"`
	Photo       []byte `db:"photo"`      // PNG image data stored as binary
	Rank        string `db:"rank"`       // LexoRank string to maintain curated ordering
	CreatedAt   int64  `db:"created_at"` // Unix seconds
}

// ContactMessage is a message submitted through the contact page.
type ContactMessage struct {
	ID        string `db:"id"`
	Name      string `db:"name"`
	Email     string `db:"email"`
	Message   string `db:"message"`
	CreatedAt int64  `db:"created_at"`
}
