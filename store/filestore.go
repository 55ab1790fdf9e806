package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/xeipuuv/gojsonschema"

	"github.com/Nimantha97/bank-voice-agent/logger"
	"github.com/Nimantha97/bank-voice-agent/types"
)

// FileStore is a JSON-file-backed Store. Customer mutations are written
// back to disk; the audit trail stays in memory.
type FileStore struct {
	mu sync.Mutex

	customersPath    string
	transactionsPath string

	customers    []types.Customer
	transactions map[string][]types.Transaction

	audit []types.AuditEntry

	log *logger.Logger
}

type customersFile struct {
	Customers []types.Customer `json:"customers"`
}

type transactionsFile struct {
	Transactions map[string][]types.Transaction `json:"transactions"`
}

// OpenFileStore loads and validates the two data files.
func OpenFileStore(customersPath, transactionsPath string) (*FileStore, error) {
	fs := &FileStore{
		customersPath:    customersPath,
		transactionsPath: transactionsPath,
		transactions:     make(map[string][]types.Transaction),
		log:              logger.Get().WithField("component", "store"),
	}

	custData, err := os.ReadFile(customersPath)
	if err != nil {
		return nil, fmt.Errorf("read customers file: %w", err)
	}
	if err := validateDocument(custData, customersSchema, "schemas/customers.schema.json"); err != nil {
		return nil, fmt.Errorf("customers file invalid: %w", err)
	}
	var cf customersFile
	if err := json.Unmarshal(custData, &cf); err != nil {
		return nil, fmt.Errorf("parse customers file: %w", err)
	}
	fs.customers = cf.Customers

	txData, err := os.ReadFile(transactionsPath)
	if err != nil {
		return nil, fmt.Errorf("read transactions file: %w", err)
	}
	if err := validateDocument(txData, transactionsSchema, "schemas/transactions.schema.json"); err != nil {
		return nil, fmt.Errorf("transactions file invalid: %w", err)
	}
	var tf transactionsFile
	if err := json.Unmarshal(txData, &tf); err != nil {
		return nil, fmt.Errorf("parse transactions file: %w", err)
	}
	if tf.Transactions != nil {
		fs.transactions = tf.Transactions
	}

	return fs, nil
}

// validateDocument checks raw JSON against a schema, preferring an on-disk
// schema file over the embedded fallback.
func validateDocument(doc []byte, embedded, schemaPath string) error {
	schemaData := []byte(embedded)
	if data, err := os.ReadFile(schemaPath); err == nil {
		schemaData = data
	}

	schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(schemaData))
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	result, err := schema.Validate(gojsonschema.NewBytesLoader(doc))
	if err != nil {
		return fmt.Errorf("validation error: %w", err)
	}
	if !result.Valid() {
		msg := ""
		for _, e := range result.Errors() {
			msg += fmt.Sprintf("\n- %s", e)
		}
		return fmt.Errorf("schema validation failed:%s", msg)
	}
	return nil
}

// persist writes the customer records back to disk. Caller holds the lock.
func (fs *FileStore) persist() error {
	data, err := json.MarshalIndent(customersFile{Customers: fs.customers}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal customers: %w", err)
	}
	if err := os.WriteFile(fs.customersPath, data, 0o644); err != nil {
		return fmt.Errorf("write customers file: %w", err)
	}
	return nil
}

// VerifyIdentity implements Store.
func (fs *FileStore) VerifyIdentity(ctx context.Context, customerID, pin string) (*types.Customer, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	for i := range fs.customers {
		c := &fs.customers[i]
		if c.CustomerID == customerID && c.PIN == pin {
			fs.appendAuditLocked(types.AuditIdentityVerified, customerID, map[string]any{"success": true})
			out := *c
			return &out, nil
		}
	}
	fs.appendAuditLocked(types.AuditVerificationFailed, customerID, map[string]any{"success": false})
	return nil, ErrInvalidCredentials
}

// GetAccountBalance implements Store.
func (fs *FileStore) GetAccountBalance(ctx context.Context, customerID string) (*types.Balance, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	for i := range fs.customers {
		c := &fs.customers[i]
		if c.CustomerID == customerID {
			b := &types.Balance{
				CustomerID:    customerID,
				AccountNumber: c.AccountNumber,
				Balance:       c.AccountBalance,
				AccountType:   c.AccountType,
			}
			fs.appendAuditLocked(types.AuditBalanceCheck, customerID, map[string]any{
				"account_number": b.AccountNumber,
				"balance":        b.Balance,
			})
			return b, nil
		}
	}
	return nil, ErrNotFound
}

// GetRecentTransactions implements Store.
func (fs *FileStore) GetRecentTransactions(ctx context.Context, customerID string, count int) ([]types.Transaction, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	txns := fs.transactions[customerID]
	if count > len(txns) {
		count = len(txns)
	}
	recent := make([]types.Transaction, count)
	copy(recent, txns[:count])
	fs.appendAuditLocked(types.AuditTransactionsRead, customerID, map[string]any{"count": len(recent)})
	return recent, nil
}

// GetCustomerCards implements Store.
func (fs *FileStore) GetCustomerCards(ctx context.Context, customerID string) ([]types.Card, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	for i := range fs.customers {
		c := &fs.customers[i]
		if c.CustomerID == customerID {
			cards := make([]types.Card, len(c.Cards))
			copy(cards, c.Cards)
			return cards, nil
		}
	}
	return nil, nil
}

// BlockCard implements Store. The transition is active -> blocked only;
// the handler layer is responsible for idempotence checks before calling.
func (fs *FileStore) BlockCard(ctx context.Context, cardID, reason string) (string, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	for i := range fs.customers {
		c := &fs.customers[i]
		for j := range c.Cards {
			card := &c.Cards[j]
			if card.CardID == cardID {
				card.Status = types.CardBlocked
				if err := fs.persist(); err != nil {
					return "", fmt.Errorf("block card: %w", err)
				}
				fs.appendAuditLocked(types.AuditCardBlocked, c.CustomerID, map[string]any{
					"card_id":     cardID,
					"reason":      reason,
					"card_number": card.CardNumber,
				})
				return fmt.Sprintf("Card %s has been blocked successfully. Reason: %s", card.CardNumber, reason), nil
			}
		}
	}
	return "", ErrNotFound
}

// UpdateAddress implements Store.
func (fs *FileStore) UpdateAddress(ctx context.Context, customerID, newAddress string) (string, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	for i := range fs.customers {
		c := &fs.customers[i]
		if c.CustomerID == customerID {
			old := c.Address
			c.Address = newAddress
			if err := fs.persist(); err != nil {
				return "", fmt.Errorf("update address: %w", err)
			}
			fs.appendAuditLocked(types.AuditAddressUpdated, customerID, map[string]any{
				"old_address": old,
				"new_address": newAddress,
			})
			return fmt.Sprintf("Address updated successfully to: %s", newAddress), nil
		}
	}
	return "", ErrNotFound
}

// AppendAuditEntry implements Store.
func (fs *FileStore) AppendAuditEntry(action, customerID string, details map[string]any) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.appendAuditLocked(action, customerID, details)
}

func (fs *FileStore) appendAuditLocked(action, customerID string, details map[string]any) {
	fs.audit = append(fs.audit, types.AuditEntry{
		Timestamp:  time.Now(),
		Action:     action,
		CustomerID: customerID,
		Details:    details,
	})
	fs.log.WithFields(map[string]any{"action": action, "customer_id": customerID}).Info("audit")
}

// AuditLog implements Store.
func (fs *FileStore) AuditLog() []types.AuditEntry {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	out := make([]types.AuditEntry, len(fs.audit))
	copy(out, fs.audit)
	return out
}

// Embedded schemas as fallback when the schemas directory is absent.

const customersSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "title": "Customers File",
  "type": "object",
  "required": ["customers"],
  "properties": {
    "customers": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["customer_id", "pin", "name", "account_number", "account_balance", "account_type", "cards"],
        "properties": {
          "customer_id": {"type": "string", "pattern": "^CUST[0-9A-Za-z]{4}$"},
          "pin": {"type": "string", "pattern": "^[0-9]{4}$"},
          "name": {"type": "string"},
          "email": {"type": "string"},
          "phone": {"type": "string"},
          "address": {"type": "string"},
          "account_number": {"type": "string"},
          "account_balance": {"type": "number"},
          "account_type": {"type": "string"},
          "cards": {
            "type": "array",
            "items": {
              "type": "object",
              "required": ["card_id", "card_number", "card_type", "status"],
              "properties": {
                "card_id": {"type": "string"},
                "card_number": {"type": "string"},
                "card_type": {"type": "string"},
                "status": {"type": "string", "enum": ["active", "blocked"]}
              }
            }
          }
        }
      }
    }
  }
}`

const transactionsSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "title": "Transactions File",
  "type": "object",
  "required": ["transactions"],
  "properties": {
    "transactions": {
      "type": "object",
      "additionalProperties": {
        "type": "array",
        "items": {
          "type": "object",
          "required": ["transaction_id", "date", "description", "amount"],
          "properties": {
            "transaction_id": {"type": "string"},
            "date": {"type": "string"},
            "description": {"type": "string"},
            "amount": {"type": "number"},
            "type": {"type": "string"},
            "category": {"type": "string"}
          }
        }
      }
    }
  }
}`
