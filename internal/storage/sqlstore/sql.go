package sqlstore

const appColumns = `id, name, category, rating, reviews, size, installs, type, price,
  content_rating, genres, last_updated, current_version, android_version`

const reviewColumns = `id, app_id, app_name, translated_review, sentiment, sentiment_polarity`

// -----------------------------------------------------------------------------
// WRITE QUERIES
// -----------------------------------------------------------------------------

const insertAppSQL = `
INSERT INTO apps
  (name, category, rating, reviews, size, installs, type, price,
   content_rating, genres, last_updated, current_version, android_version)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

const updateAppSQL = `
UPDATE apps SET
  name            = ?,
  category        = ?,
  rating          = ?,
  reviews         = ?,
  size            = ?,
  installs        = ?,
  type            = ?,
  price           = ?,
  content_rating  = ?,
  genres          = ?,
  last_updated    = ?,
  current_version = ?,
  android_version = ?
WHERE id = ?
`

const deleteAppSQL = `DELETE FROM apps WHERE id = ?`

// The owning App's name fills app_name when the caller left it empty, and the
// SELECT yields no row (so nothing is inserted) when the App does not exist.
const insertReviewSQL = `
INSERT INTO reviews
  (app_id, app_name, translated_review, sentiment, sentiment_polarity)
SELECT a.id, CASE WHEN ? = '' THEN a.name ELSE ? END, ?, ?, ?
FROM apps a
WHERE a.id = ?
`

const reviewAppNameSQL = `SELECT app_name FROM reviews WHERE id = ?`

const deleteReviewSQL = `DELETE FROM reviews WHERE id = ?`

// -----------------------------------------------------------------------------
// READ QUERIES
// -----------------------------------------------------------------------------

const getAppSQL = `SELECT ` + appColumns + ` FROM apps WHERE id = ?`

const appExistsSQL = `SELECT 1 FROM apps WHERE id = ?`

const listAppsSQL = `SELECT ` + appColumns + ` FROM apps ORDER BY id`

const findAppByNameSQL = `SELECT ` + appColumns + ` FROM apps WHERE name = ? ORDER BY id LIMIT 1`

const findAppByNameFoldSQL = `SELECT ` + appColumns + ` FROM apps WHERE LOWER(name) = LOWER(?) ORDER BY id LIMIT 1`

// '!' is the LIKE escape in both dialects; see likeContains.
const searchAppsSQL = `SELECT ` + appColumns + `
FROM apps
WHERE LOWER(name) LIKE LOWER(?) ESCAPE '!'
ORDER BY name, id`

const topRatedSQL = `SELECT ` + appColumns + `
FROM apps
WHERE rating IS NOT NULL
ORDER BY rating DESC, id
LIMIT ?`

const getReviewSQL = `SELECT ` + reviewColumns + ` FROM reviews WHERE id = ?`

const listReviewsSQL = `SELECT ` + reviewColumns + ` FROM reviews ORDER BY id`

const reviewsForAppsPrefix = `SELECT ` + reviewColumns + ` FROM reviews WHERE app_id IN (`

const reviewsForAppsSuffix = `) ORDER BY id`

const findReviewSQL = `SELECT ` + reviewColumns + `
FROM reviews
WHERE app_id = ? AND translated_review = ?
ORDER BY id
LIMIT 1`

// NULL polarities sort last under DESC in both MySQL and SQLite.
const reviewsBySentimentSQL = `SELECT ` + reviewColumns + `
FROM reviews
WHERE LOWER(sentiment) = LOWER(?)
ORDER BY sentiment_polarity DESC, id
LIMIT ?`

const polarityStatsSQL = `SELECT COUNT(*), AVG(sentiment_polarity) FROM reviews`
