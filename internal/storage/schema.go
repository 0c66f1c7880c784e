// ABOUTME: SQLite schema definition and initialization.
// ABOUTME: Defines journal tables (entries, experiments, tags) and goal tables.
package storage

// initSchema creates or updates the database schema.
func (d *DB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS entries (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT DEFAULT '',
		occurred_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		domain TEXT DEFAULT '',
		valence TEXT DEFAULT 'neutral',
		experience_text TEXT DEFAULT '',
		reflection_text TEXT DEFAULT '',
		reflection_prompts TEXT DEFAULT '{}',
		abstraction_text TEXT DEFAULT '',
		abstraction_prompts TEXT DEFAULT '{}',
		no_experiment_needed INTEGER DEFAULT 0,
		is_complete INTEGER DEFAULT 0,
		current_step INTEGER DEFAULT 1,
		reflects_on_experiment_id INTEGER,
		FOREIGN KEY (reflects_on_experiment_id) REFERENCES experiments(id) ON DELETE SET NULL
	);

	CREATE TABLE IF NOT EXISTS experiments (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		entry_id INTEGER NOT NULL,
		text TEXT NOT NULL,
		status TEXT DEFAULT 'planned',
		start_date TEXT,
		review_date TEXT,
		outcome_notes TEXT DEFAULT '',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (entry_id) REFERENCES entries(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS tags (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT UNIQUE NOT NULL
	);

	CREATE TABLE IF NOT EXISTS entry_tags (
		entry_id INTEGER NOT NULL,
		tag_id INTEGER NOT NULL,
		PRIMARY KEY (entry_id, tag_id),
		FOREIGN KEY (entry_id) REFERENCES entries(id) ON DELETE CASCADE,
		FOREIGN KEY (tag_id) REFERENCES tags(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS entry_links (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		from_entry_id INTEGER NOT NULL,
		to_entry_id INTEGER NOT NULL,
		link_type TEXT DEFAULT 'reflects_on',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (from_entry_id) REFERENCES entries(id) ON DELETE CASCADE,
		FOREIGN KEY (to_entry_id) REFERENCES entries(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT
	);

	CREATE TABLE IF NOT EXISTS goals (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL,
		description TEXT DEFAULT '',
		outcome_target TEXT DEFAULT '',
		target_date TEXT,
		target_metric TEXT DEFAULT '',
		is_archived INTEGER DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS goal_performance_metrics (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		goal_id INTEGER NOT NULL,
		metric_name TEXT NOT NULL,
		metric_order INTEGER DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (goal_id) REFERENCES goals(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS goal_daily_logs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		goal_id INTEGER NOT NULL,
		log_date TEXT NOT NULL,
		notes TEXT DEFAULT '',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(goal_id, log_date),
		FOREIGN KEY (goal_id) REFERENCES goals(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS goal_performance_entries (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		daily_log_id INTEGER NOT NULL,
		metric_id INTEGER NOT NULL,
		completed INTEGER DEFAULT 0,
		rating INTEGER DEFAULT 0,
		notes TEXT DEFAULT '',
		FOREIGN KEY (daily_log_id) REFERENCES goal_daily_logs(id) ON DELETE CASCADE,
		FOREIGN KEY (metric_id) REFERENCES goal_performance_metrics(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS goal_risks (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		goal_id INTEGER NOT NULL,
		risk_description TEXT NOT NULL,
		scripted_action TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (goal_id) REFERENCES goals(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_entries_occurred_at ON entries(occurred_at);
	CREATE INDEX IF NOT EXISTS idx_entries_updated_at ON entries(updated_at);
	CREATE INDEX IF NOT EXISTS idx_entries_domain ON entries(domain);
	CREATE INDEX IF NOT EXISTS idx_entries_valence ON entries(valence);
	CREATE INDEX IF NOT EXISTS idx_experiments_entry ON experiments(entry_id);
	CREATE INDEX IF NOT EXISTS idx_experiments_status ON experiments(status);
	CREATE INDEX IF NOT EXISTS idx_experiments_review_date ON experiments(review_date);
	CREATE INDEX IF NOT EXISTS idx_goals_is_archived ON goals(is_archived);
	CREATE INDEX IF NOT EXISTS idx_goal_daily_logs_date ON goal_daily_logs(log_date);
	CREATE INDEX IF NOT EXISTS idx_goal_daily_logs_goal ON goal_daily_logs(goal_id);
	`

	_, err := d.db.Exec(schema)
	return err
}
