package services

import (
	"context"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/shoplist/api/internal/auth"
	"github.com/shoplist/api/internal/models"
	"github.com/shoplist/api/internal/repository"
	appErr "github.com/shoplist/api/pkg/errors"
	"github.com/shoplist/api/pkg/logger"
)

const (
	MsgNoFile        = "No file uploaded."
	MsgNotCSV        = "Only CSV files are allowed."
	MsgImportSuccess = "File uploaded and data saved successfully."
	MsgMalformedCSV  = "Malformed CSV file."
)

// ImportService bulk loads items from CSV.
type ImportService interface {
	ImportCSV(ctx context.Context, caller auth.Identity, filename string, r io.Reader) (int, error)
}

type importService struct {
	itemRepo repository.ItemRepository
}

func NewImportService(itemRepo repository.ItemRepository) ImportService {
	return &importService{itemRepo: itemRepo}
}

var _ ImportService = (*importService)(nil)

// IsCSVFilename reports whether name has a .csv extension, ignoring case.
func IsCSVFilename(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".csv")
}

// ImportCSV parses a header-first CSV into items and inserts them all in one
// transaction. The first invalid record aborts the import and nothing is
// stored.
//
// Imported rows keep the UserId column from the file (0 when absent); the
// caller's identity is not applied, unlike CreateItem.
func (s *importService) ImportCSV(ctx context.Context, caller auth.Identity, filename string, r io.Reader) (int, error) {
	if !IsCSVFilename(filename) {
		return 0, appErr.New(appErr.CodeInvalid, MsgNotCSV)
	}

	items, err := parseItems(r)
	if err != nil {
		return 0, err
	}

	if err := s.itemRepo.CreateBatch(ctx, items); err != nil {
		return 0, err
	}

	unowned := 0
	for _, it := range items {
		if it.UserID == 0 {
			unowned++
		}
	}
	logger.L().Info("csv import stored",
		zap.Int64("user_id", caller.UserID),
		zap.String("filename", filename),
		zap.Int("imported", len(items)),
		zap.Int("unowned", unowned),
	)
	return len(items), nil
}

func parseItems(r io.Reader) ([]models.Item, error) {
	records, err := gocsv.DefaultCSVReader(r).ReadAll()
	if err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInvalid, MsgMalformedCSV)
	}
	if len(records) == 0 {
		return []models.Item{}, nil
	}

	header, err := normalizeHeaders(records[0])
	if err != nil {
		return nil, err
	}

	items := make([]models.Item, 0, len(records)-1)
	for i, row := range records[1:] {
		rec := make(map[string]string, len(header))
		for col, key := range header {
			rec[key] = strings.TrimSpace(row[col])
		}
		// line 1 is the header
		it, ok := recordToItem(rec)
		if !ok {
			return nil, appErr.Newf(appErr.CodeInvalid, "Invalid record data at row %d: %s, %s", i+2, rec["name"], rec["price"]).
				WithMeta("row", i+2)
		}
		items = append(items, it)
	}
	return items, nil
}

// normalizeHeaders lowercases and trims column names. Two columns that
// normalize to the same name make the file malformed.
func normalizeHeaders(raw []string) ([]string, error) {
	out := make([]string, len(raw))
	seen := make(map[string]bool, len(raw))
	for i, k := range raw {
		if i == 0 {
			k = strings.TrimPrefix(k, "\ufeff")
		}
		k = strings.ToLower(strings.TrimSpace(k))
		if seen[k] {
			return nil, appErr.Newf(appErr.CodeInvalid, "%s Duplicate column %q.", MsgMalformedCSV, k).
				WithMeta("column", k)
		}
		seen[k] = true
		out[i] = k
	}
	return out, nil
}

func recordToItem(rec map[string]string) (models.Item, bool) {
	it := models.Item{Name: rec["name"]}
	if it.Name == "" {
		return it, false
	}

	p, err := decimal.NewFromString(rec["price"])
	if err != nil || !models.ValidPrice(p) {
		return it, false
	}
	it.Price = p

	if v := rec["deleted"]; v != "" {
		d, err := strconv.ParseBool(v)
		if err != nil {
			return it, false
		}
		it.Deleted = d
	}
	if v := rec["userid"]; v != "" {
		uid, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return it, false
		}
		it.UserID = uid
	}
	return it, true
}
