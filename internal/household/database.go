package household

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.etcd.io/bbolt"
)

const (
	receiptBucketName = "receipts"
	budgetBucketName  = "budgets"
)

// ErrNotFound is returned when a record does not exist
var ErrNotFound = errors.New("not found")

// DB defines the interface for database operations
type DB interface {
	// SaveReceipt saves a receipt with its items
	SaveReceipt(receipt *Receipt) error

	// GetReceipt retrieves a receipt by ID
	GetReceipt(id string) (*Receipt, error)

	// ListReceipts returns the receipts of a household, oldest purchase first.
	// An empty householdID lists every household.
	ListReceipts(householdID string) ([]*Receipt, error)

	// DeleteReceipt removes a receipt from the database
	DeleteReceipt(id string) error

	// SaveBudget saves a budget
	SaveBudget(budget *Budget) error

	// GetBudget retrieves a budget by ID
	GetBudget(id string) (*Budget, error)

	// ListBudgets returns the budgets of a household
	ListBudgets(householdID string) ([]*Budget, error)

	// Close closes the database connection
	Close() error
}

// BoltDB implements the DB interface using BoltDB
type BoltDB struct {
	db *bbolt.DB
}

// NewBoltDB opens or creates the database at path
func NewBoltDB(path string) (*BoltDB, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening boltdb: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range []string{receiptBucketName, budgetBucketName} {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating buckets: %w", err)
	}

	return &BoltDB{db: db}, nil
}

func put(tx *bbolt.Tx, bucket, id string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return tx.Bucket([]byte(bucket)).Put([]byte(id), data)
}

func get(tx *bbolt.Tx, bucket, id string, v any) error {
	data := tx.Bucket([]byte(bucket)).Get([]byte(id))
	if data == nil {
		return ErrNotFound
	}
	return json.Unmarshal(data, v)
}

// SaveReceipt saves a receipt with its items
func (b *BoltDB) SaveReceipt(receipt *Receipt) error {
	if receipt.ID == "" {
		return errors.New("receipt has no id")
	}
	return b.db.Update(func(tx *bbolt.Tx) error {
		if err := put(tx, receiptBucketName, receipt.ID, receipt); err != nil {
			return fmt.Errorf("marshaling receipt: %w", err)
		}
		return nil
	})
}

// GetReceipt retrieves a receipt by ID
func (b *BoltDB) GetReceipt(id string) (*Receipt, error) {
	var receipt Receipt
	err := b.db.View(func(tx *bbolt.Tx) error {
		return get(tx, receiptBucketName, id, &receipt)
	})
	if errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("receipt %w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("unmarshaling receipt: %w", err)
	}
	return &receipt, nil
}

// ListReceipts returns the receipts of a household, oldest purchase first
func (b *BoltDB) ListReceipts(householdID string) ([]*Receipt, error) {
	receipts := make([]*Receipt, 0)
	err := b.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(receiptBucketName)).ForEach(func(k, v []byte) error {
			var receipt Receipt
			if err := json.Unmarshal(v, &receipt); err != nil {
				return fmt.Errorf("unmarshaling receipt %s: %w", k, err)
			}
			if householdID == "" || receipt.HouseholdID == householdID {
				receipts = append(receipts, &receipt)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(receipts, func(i, j int) bool {
		return receipts[i].PurchaseDate.Before(receipts[j].PurchaseDate)
	})
	return receipts, nil
}

// DeleteReceipt removes a receipt from the database
func (b *BoltDB) DeleteReceipt(id string) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(receiptBucketName)).Delete([]byte(id))
	})
}

// SaveBudget saves a budget
func (b *BoltDB) SaveBudget(budget *Budget) error {
	if budget.ID == "" {
		return errors.New("budget has no id")
	}
	return b.db.Update(func(tx *bbolt.Tx) error {
		if err := put(tx, budgetBucketName, budget.ID, budget); err != nil {
			return fmt.Errorf("marshaling budget: %w", err)
		}
		return nil
	})
}

// GetBudget retrieves a budget by ID
func (b *BoltDB) GetBudget(id string) (*Budget, error) {
	var budget Budget
	err := b.db.View(func(tx *bbolt.Tx) error {
		return get(tx, budgetBucketName, id, &budget)
	})
	if errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("budget %w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("unmarshaling budget: %w", err)
	}
	return &budget, nil
}

// ListBudgets returns the budgets of a household in ID order
func (b *BoltDB) ListBudgets(householdID string) ([]*Budget, error) {
	budgets := make([]*Budget, 0)
	err := b.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(budgetBucketName)).ForEach(func(k, v []byte) error {
			var budget Budget
			if err := json.Unmarshal(v, &budget); err != nil {
				return fmt.Errorf("unmarshaling budget %s: %w", k, err)
			}
			if householdID == "" || budget.HouseholdID == householdID {
				budgets = append(budgets, &budget)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return budgets, nil
}

// Close closes the database connection
func (b *BoltDB) Close() error {
	return b.db.Close()
}
