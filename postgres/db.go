package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"math/big"
	"reflect"

	"github.com/rafacorp/recipes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/schema"
)

// Associations names every top-level association of a model,
// for use with Preload.
const Associations = clause.Associations

// A Scope is a reusable fragment of a query.
type Scope func(*DB) *DB

var (
	errNilArg = errors.New("nil argument")

	// safeGORMSession forces *gorm.DB methods onto a clean pointer,
	// since some methods mutate the *gorm.DB they are called on.
	safeGORMSession = &gorm.Session{}
)

type DB struct {
	// *gorm.DB's methods are generally unsafe to use directly.
	// Some are not thread-safe and mutate the state of the *gorm.DB backing DB.
	// Wrapper methods return a new *DB so chains never share state.
	db *gorm.DB
}

// NewDB constructs a *DB from a *gorm.DB.
func NewDB(db *gorm.DB) *DB { return &DB{db: db} }

// DB exposes the underlying *gorm.DB backing DB.
//
// NB: use in exceptional circumstances only.
func (db *DB) DB() *gorm.DB { return db.db }

// Debug prints the current query to the logger.
func (db *DB) Debug() *DB { return &DB{db.db.Debug()} }

// **************************************************************************
// FINISHER METHODS
//
// These methods close out a current query, executing it.
// All finisher methods are terminal and cannot be chained.
// They return any errors occurring within the query chain
// or when executing the query.
// **************************************************************************

// Count returns the number of records matching the current query or an error.
func (db *DB) Count() (int64, error) {
	if db.db.Error != nil {
		return 0, db.db.Error
	}

	var count int64
	if err := db.db.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("%w: %s", recipes.ErrUnexpected, err)
	}

	return count, nil
}

// Create inserts value into the database, updating value with new data
// yielding from that insertion. Value is almost always a pointer to a struct
// backed by a database table.
//
// Value must be a pointer, otherwise ErrNotValid returns.
// If value violates a foreign key constraint defined by the database,
// ErrNotValid returns.
// If value violates a unique constraint defined by the database,
// ErrExists returns.
func (db *DB) Create(value any) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %T must be a non-nil pointer or slice", recipes.ErrNotValid, value)
		}
	}()

	if db.db.Error != nil {
		return db.db.Error
	}

	if v, ok := value.(Updates); ok {
		if err = v.valid(); err != nil {
			return err
		}

		value = map[string]any(v)
	}

	err = db.db.Session(&gorm.Session{FullSaveAssociations: false}).Create(value).Error
	switch {
	case err == nil:
		return nil

	case errors.Is(err, schema.ErrUnsupportedDataType), errors.Is(err, gorm.ErrInvalidData):
		return fmt.Errorf("%w: %T is not a database table", recipes.ErrMissingData, value)

	case errFKViolation.MatchString(err.Error()):
		return fmt.Errorf("%w: %s", recipes.ErrNotValid, err)

	case errUniqViolation.MatchString(err.Error()):
		return fmt.Errorf("%w: %s", recipes.ErrExists, err)

	default:
		return fmt.Errorf("%w: failed creating %T: %s", recipes.ErrUnexpected, value, err)
	}
}

// Delete archives or soft deletes the database record for value.
//
// If no record matches value, ErrNotFound returns.
func (db *DB) Delete(value any) error {
	if db.db.Error != nil {
		return db.db.Error
	}

	res := db.db.Delete(value)
	if errors.Is(res.Error, schema.ErrUnsupportedDataType) {
		return fmt.Errorf("%w: cannot parse table name from %T", recipes.ErrMissingData, value)
	}

	if res.Error != nil {
		return fmt.Errorf("%w: failed deleting %T: %s", recipes.ErrUnexpected, value, res.Error)
	}

	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: %T", recipes.ErrNotFound, value)
	}

	return nil
}

// Exec executes SQL query sql, passing values to it.
//
// If the query executed does not affect any records, Exec returns ErrNotFound.
// There are many use cases where the caller ought to specifically ignore this
// error, since the execution may not change existing records.
//
// Exec does not write any data resulting from the query into Go values.
func (db *DB) Exec(sql string, values ...any) error {
	if db.db.Error != nil {
		return db.db.Error
	}

	var err error
	values, err = unwrap(values...)
	if err != nil && !errors.Is(err, errNilArg) {
		return err
	}

	res := db.db.Exec(sql, values...)
	if res.Error != nil {
		return fmt.Errorf("%w: %s", recipes.ErrUnexpected, res.Error)
	}

	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: exec failed to affect any rows", recipes.ErrNotFound)
	}

	return nil
}

// Exists asserts whether any record matches the current query.
func (db *DB) Exists() (bool, error) {
	if db.db.Error != nil {
		return false, db.db.Error
	}

	var exists bool
	err := db.db.Raw("SELECT EXISTS(?)", db.db.Session(safeGORMSession)).Scan(&exists).Error
	if err != nil {
		return false, fmt.Errorf("%w: %s", recipes.ErrUnexpected, err)
	}

	return exists, nil
}

// Find retrieves all records matching the current query
// and stores them in dest.
//
// Unlike First, finding zero records is not an error;
// dest is left an empty slice.
func (db *DB) Find(dest any) (err error) {
	badDest := fmt.Errorf("%w: %T cannot be scanned into", recipes.ErrNotValid, dest)
	defer func() {
		if r := recover(); r != nil {
			err = badDest
		}
	}()

	if db.db.Error != nil {
		return db.db.Error
	}

	err = db.db.Find(dest).Error
	if err != nil && errSQLScan.MatchString(err.Error()) {
		return badDest
	}

	if err != nil && errSQLSyntax.MatchString(err.Error()) {
		return fmt.Errorf("%w: %s", recipes.ErrNotValid, err)
	}

	if err != nil {
		return fmt.Errorf("%w: %s", recipes.ErrUnexpected, err)
	}

	return nil
}

// First retrieves a single record from the database matching the query
// and stores it in dest.
//
// If no matches are found, First returns ErrNotFound.
func (db *DB) First(dest any) error {
	if db.db.Error != nil {
		return db.db.Error
	}

	err := db.db.First(dest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w", recipes.ErrNotFound)
	}

	if err != nil && errSQLSyntax.MatchString(err.Error()) {
		return fmt.Errorf("%w: %s", recipes.ErrNotValid, err)
	}

	if err != nil {
		return fmt.Errorf("%w: %s", recipes.ErrUnexpected, err)
	}

	return nil
}

// Paged turns the results of the current query into a paginated version:
// PagedData. Requires the query chain to have set Model.
func (db *DB) Paged(page, perPage int64) (pd PagedData, err error) {
	defer func() {
		// This method uses reflect and so can panic.
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: Paged panicked: %s", recipes.ErrUnexpected, r)
			pd = PagedData{}
		}
	}()

	if db.db.Error != nil {
		return PagedData{}, db.db.Error
	}

	model := db.DB().Statement.Model
	if model == nil {
		return PagedData{}, fmt.Errorf("%w: must use Model with Paged", recipes.ErrNotValid)
	}

	reflectType := reflect.TypeOf(db.DB().Statement.Model).Elem()
	if reflectType.Kind() != reflect.Slice {
		model = reflect.New(reflect.SliceOf(reflectType)).Interface()
	}

	pd.Items = model
	pd.Page = max(1, page)
	pd.PerPage = max(1, perPage)

	var totalRecords int64
	err = db.db.Session(safeGORMSession).Count(&totalRecords).Error
	if err != nil {
		return PagedData{}, fmt.Errorf("%w: %s", recipes.ErrUnexpected, err)
	}

	offset := int((pd.Page - 1) * pd.PerPage)
	err = db.db.Limit(int(pd.PerPage)).Offset(offset).Find(pd.Items).Error
	if err != nil {
		return PagedData{}, fmt.Errorf("%w: %s", recipes.ErrUnexpected, err)
	}

	// Use math/big for accurate float64 division.
	totalPages := new(big.Float).SetInt(big.NewInt(totalRecords))
	perPageFl := new(big.Float).SetInt(big.NewInt(pd.PerPage))

	zero := big.NewFloat(0)
	if totalPages.Cmp(zero) != 0 && perPageFl.Cmp(zero) != 0 {
		totalPages.Quo(totalPages, perPageFl)
	}

	// Int64 rounds towards zero; add one when it truncates
	// to get rounding up to the ceiling.
	var acc big.Accuracy
	pd.TotalPages, acc = totalPages.Int64()
	if acc == big.Below {
		pd.TotalPages += 1
	}

	pd.TotalItems = totalRecords

	return pd, nil
}

// Raw executes sql, passing values to it, and scans the results into dest.
func (db *DB) Raw(dest any, sql string, values ...any) error {
	if db.db.Error != nil {
		return db.db.Error
	}

	var err error
	values, err = unwrap(values...)
	if err != nil && !errors.Is(err, errNilArg) {
		return err
	}

	err = db.db.Raw(sql, values...).Scan(dest).Error
	if err != nil && errSQLSyntax.MatchString(err.Error()) {
		return fmt.Errorf("%w: %s", recipes.ErrNotValid, err)
	}

	if err != nil {
		return fmt.Errorf("%w: failed scanning results: %s", recipes.ErrUnexpected, err)
	}

	return nil
}

// Update replaces existing data on all records matching the query with values.
//
// If no records are updated, ErrNotFound returns.
// The caller ought to specifically handle this error
// when it's expected a query may not mutate records.
func (db *DB) Update(values Updates) error {
	if db.db.Error != nil {
		return db.db.Error
	}

	if err := values.valid(); err != nil {
		return err
	}

	res := db.db.Updates(map[string]any(values))
	switch {
	case res.RowsAffected == 0 && res.Error == nil:
		return fmt.Errorf("%w", recipes.ErrNotFound)

	case res.Error == nil:
		return nil

	case errUniqViolation.MatchString(res.Error.Error()):
		return fmt.Errorf("%w: %s", recipes.ErrExists, res.Error)

	default:
		return fmt.Errorf("%w: %s", recipes.ErrUnexpected, res.Error)
	}
}

// **************************************************************************
// ASSOCIATION METHODS
//
// These methods mutate the join table backing a model's
// many-to-many association. They are terminal.
// **************************************************************************

// ReplaceAssociation swaps the full set of records related to model
// under the named association with values.
//
// Model must be a pointer to a struct with its primary ID set.
// An empty values slice clears the association.
func (db *DB) ReplaceAssociation(model any, association string, values any) error {
	if db.db.Error != nil {
		return db.db.Error
	}

	err := db.db.Model(model).Association(association).Replace(values)
	if err != nil {
		return fmt.Errorf("%w: failed replacing %s on %T: %s", recipes.ErrUnexpected, association, model, err)
	}

	return nil
}

// ClearAssociation removes every record related to model
// under the named association.
func (db *DB) ClearAssociation(model any, association string) error {
	if db.db.Error != nil {
		return db.db.Error
	}

	err := db.db.Model(model).Association(association).Clear()
	if err != nil {
		return fmt.Errorf("%w: failed clearing %s on %T: %s", recipes.ErrUnexpected, association, model, err)
	}

	return nil
}

// **************************************************************************
// QUERY BUILDING METHODS
//
// Query building methods initiate a query and then add clauses to it
// until a finisher method is called.
// **************************************************************************

// Distinct adds a DISTINCT clause to the current query.
// Column can be an empty string, which is the equivalent of all columns, i.e.: *.
func (db *DB) Distinct(column string) *DB {
	if column == "" {
		column = "*"
	}

	return &DB{db.db.Distinct(column)}
}

// Joins applies the JOIN statement query and args to the current query.
// args can include a *postgres.DB, that is, a subquery.
func (db *DB) Joins(query string, args ...any) *DB {
	var err error
	args, err = unwrap(args...)
	if err != nil && !errors.Is(err, errNilArg) {
		gdb := db.DB().Session(safeGORMSession)
		_ = gdb.AddError(err)
		return &DB{db: gdb}
	}

	return &DB{db: db.db.Joins(query, args...)}
}

// Limit applies a LIMIT clause to the current query.
func (db *DB) Limit(limit int) *DB {
	// GORM interprets negatives by not applying a LIMIT clause;
	// PostgreSQL errors on them. Mirror PostgreSQL, not GORM.
	if limit < 0 {
		gdb := db.DB().Session(safeGORMSession)
		_ = gdb.AddError(fmt.Errorf("%w: limit must not be negative", recipes.ErrNotValid))
		return &DB{db: gdb}
	}

	return &DB{db: db.db.Limit(limit)}
}

// Model declares the table used for the query.
//
// Model computes the name for the database table from the type of model,
// taking the plural of the type name, for example:
//   - User -> users
//   - Recipe -> recipes
func (db *DB) Model(model any) *DB {
	return &DB{db: db.db.Model(model)}
}

// Offset applies an OFFSET clause to the current query.
func (db *DB) Offset(offset int) *DB {
	if offset < 0 {
		gdb := db.DB().Session(safeGORMSession)
		_ = gdb.AddError(fmt.Errorf("%w: offset must not be negative", recipes.ErrNotValid))
		return &DB{db: gdb}
	}

	return &DB{db: db.db.Offset(offset)}
}

// Order applies an ORDER BY clause to the current query.
func (db *DB) Order(order string) *DB { return &DB{db: db.db.Order(order)} }

// Preload fetches data embedded in a model based on that model's associations.
// An association is specified by the model's field name, such as Tags or User.
//
// To load all top-level associations, use the constant Associations.
//
// If additional filtering on the preloaded data is necessary,
// scopes can be used to add conditions.
func (db *DB) Preload(association string, scopes ...Scope) *DB {
	var resolved []any
	for _, scope := range scopes {
		// Naively passing db means scope applies itself to the current query
		// instead of on the new query for the preload association.
		clean := NewDB(db.db.Session(&gorm.Session{NewDB: true}))
		resolved = append(resolved, scope(clean).DB())
	}

	return &DB{db: db.db.Preload(association, resolved...)}
}

// Scope applies the scope to the existing query.
func (db *DB) Scope(scope Scope) *DB {
	return &DB{db: db.db.Scopes(func(dbx *gorm.DB) *gorm.DB {
		return scope(NewDB(dbx)).DB()
	})}
}

// Select applies a SELECT statement to the current query.
func (db *DB) Select(columns ...string) *DB { return &DB{db: db.db.Select(columns)} }

// Table defines which database table to query for the current query.
// Table is similar to Model but allows for explicit definition of the table.
func (db *DB) Table(name string) *DB { return &DB{db: db.db.Table(name)} }

// Unscoped includes archived, soft deleted records in the current query.
func (db *DB) Unscoped() *DB { return &DB{db: db.db.Unscoped()} }

// Where applies the query fragment or subquery to the current query
// as a WHERE or AND clause.
//
// Where supports one or none args.
// If more than one arg is passed, finisher methods will return ErrNotValid.
func (db *DB) Where(query any, args ...any) *DB {
	if len(args) > 1 {
		gdb := db.DB().Session(safeGORMSession)
		_ = gdb.AddError(fmt.Errorf("%w: Where supports one or none args", recipes.ErrNotValid))
		return &DB{db: gdb}
	}

	var err error
	args, err = unwrap(args...)
	if err != nil && !errors.Is(err, errNilArg) {
		gdb := db.DB().Session(safeGORMSession)
		_ = gdb.AddError(err)
		return &DB{db: gdb}
	}

	q, err := unwrap(query)
	if err != nil {
		gdb := db.DB().Session(safeGORMSession)
		_ = gdb.AddError(err)
		return &DB{db: gdb}
	}

	return &DB{db.db.Where(q[0], args...)}
}

// **************************************************************************
// TRANSACTION METHODS
// **************************************************************************

// Begin initializes a database transaction.
func (db *DB) Begin(opts ...*sql.TxOptions) *DB {
	return &DB{db: db.db.Begin(opts...)}
}

// Commit completes the current transaction,
// applying any state changes and making them visible to other connections.
func (db *DB) Commit() error {
	if db.db.Error != nil {
		return db.db.Error
	}

	if err := db.db.Commit().Error; err != nil {
		return fmt.Errorf("%w: failed committing tx: %s", recipes.ErrUnexpected, err)
	}

	return nil
}

// Rollback reverts the current transaction.
// If no transaction is open, Rollback returns an error.
func (db *DB) Rollback() error {
	if err := db.db.Rollback().Error; err != nil {
		return fmt.Errorf("%w: failed rolling back tx: %s", recipes.ErrUnexpected, err)
	}

	return nil
}

// **************************************************************************
// HELPERS
// **************************************************************************

// unwrap converts any custom postgres types that are troublesome for GORM
// into types it can handle.
//
// Notably, if a *DB is passed as a parameter and that *DB is in an error
// state, that fact is surfaced. This enables a *DB method to return early
// and prevent partial queries from running.
func unwrap(args ...any) ([]any, error) {
	var err error
	res := make([]any, len(args))
	for i, arg := range args {
		switch v := arg.(type) {
		case *DB:
			gdb := v.DB()
			if gdb.Error != nil {
				err = errors.Join(err, gdb.Error)
			}
			res[i] = gdb

		case nil:
			res[i] = arg
			err = errors.Join(err, recipes.ErrNotValid, errNilArg)

		default:
			res[i] = arg
		}
	}

	return res, err
}
