package store

const schema = `
CREATE TABLE IF NOT EXISTS decks (
	name TEXT PRIMARY KEY,
	mode TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS cards (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	deck_name TEXT NOT NULL REFERENCES decks(name) ON DELETE CASCADE,
	keybind TEXT NOT NULL,
	description TEXT NOT NULL,
	stability REAL NOT NULL DEFAULT 0,
	difficulty REAL NOT NULL DEFAULT 0,
	last_review TEXT,
	due TEXT,
	reps INTEGER NOT NULL DEFAULT 0,
	lapses INTEGER NOT NULL DEFAULT 0,
	UNIQUE(deck_name, keybind)
);

CREATE TABLE IF NOT EXISTS reviews (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	card_id INTEGER NOT NULL REFERENCES cards(id) ON DELETE CASCADE,
	timestamp TEXT NOT NULL,
	rating TEXT NOT NULL,
	elapsed_ms INTEGER NOT NULL,
	attempts INTEGER NOT NULL,
	revealed INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS settings (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_cards_deck_name ON cards(deck_name);
CREATE INDEX IF NOT EXISTS idx_reviews_card_id ON reviews(card_id);
`
