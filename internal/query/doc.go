// Package query turns raw request query parameters into a storage-independent
// Filter, and renders a Filter to a parameterized SQL WHERE clause.
//
// A Filter is a conjunction of constraints. Each constraint names an attribute
// path and either an equality (one value, or membership when several values are
// given) or a set-contains test. Attribute paths with a dot ("project.company")
// address fields reached through the ticket aggregation join rather than
// columns of the ticket itself.
//
// Compile never touches storage; the SQL side lives in SQLBuilder and is
// driven by a Schema that maps attribute paths to column expressions.
package query
