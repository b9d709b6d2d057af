/*
Package postgres manages the service's database connection and wraps GORM with
a small, chainable query API.

Query building methods (Where, Model, Order, Joins, ...) accumulate clauses;
finisher methods (First, Find, Create, Update, ...) execute the query and
translate driver errors into the sentinel errors of the root recipes package.
*/
package postgres
