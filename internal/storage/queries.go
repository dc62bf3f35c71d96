package storage

// Timestamps are stored UTC in a fixed-width layout so that string
// comparison in SQL orders them chronologically.
const timestampLayout = "2006-01-02T15:04:05.000000000Z"

const listTransactions = `
SELECT id, user_id, amount, type, category, occurred_at, description
FROM transactions
WHERE user_id = ?
  AND (? = '' OR occurred_at >= ?)
  AND (? = '' OR occurred_at <= ?)
ORDER BY occurred_at, id`

const listGoals = `
SELECT id, user_id, name, category, target_amount, saved_amount, target_date
FROM goals
WHERE user_id = ?
ORDER BY created_at, id`

const listActiveBudgets = `
SELECT id, user_id, category, amount
FROM budgets
WHERE user_id = ? AND is_active = 1
ORDER BY category, id`

const insertTransaction = `
INSERT INTO transactions (id, user_id, amount, type, category, occurred_at, description)
VALUES (?, ?, ?, ?, ?, ?, ?)`

const insertGoal = `
INSERT INTO goals (id, user_id, name, category, target_amount, saved_amount, target_date)
VALUES (?, ?, ?, ?, ?, ?, ?)`

const insertBudget = `
INSERT INTO budgets (id, user_id, category, amount, is_active)
VALUES (?, ?, ?, ?, ?)`
