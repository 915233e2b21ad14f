package repo

// Inline SQL used by the Postgres repositories.

const qSchema = `
CREATE TABLE IF NOT EXISTS sessions (
    id         uuid PRIMARY KEY,
    user_id    text NOT NULL,
    data       jsonb NOT NULL,
    created_at timestamptz NOT NULL,
    updated_at timestamptz NOT NULL
);
CREATE INDEX IF NOT EXISTS sessions_user_id_idx ON sessions (user_id);

CREATE TABLE IF NOT EXISTS usage_counters (
    user_id     text PRIMARY KEY,
    slides_used int NOT NULL DEFAULT 0,
    updated_at  timestamptz NOT NULL DEFAULT now()
);
`

const qUpsertSession = `
INSERT INTO sessions (id, user_id, data, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (id) DO UPDATE
SET data = EXCLUDED.data,
    updated_at = EXCLUDED.updated_at;
`

const qGetSession = `SELECT data FROM sessions WHERE id = $1`

const qDeleteSession = `DELETE FROM sessions WHERE id = $1`

const qGetUsage = `SELECT slides_used FROM usage_counters WHERE user_id = $1`

const qAddUsage = `
INSERT INTO usage_counters (user_id, slides_used)
VALUES ($1, $2)
ON CONFLICT (user_id) DO UPDATE
SET slides_used = usage_counters.slides_used + EXCLUDED.slides_used,
    updated_at = NOW()
RETURNING slides_used;
`
