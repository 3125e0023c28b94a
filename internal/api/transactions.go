package api

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"

	"github.com/Veraticus/finflow/internal/model"
)

// TransactionsService manages income and expense records.
type TransactionsService struct {
	client *Client
}

// FilterQuery encodes a filter, omitting zero fields.
func FilterQuery(f model.TransactionFilter) url.Values {
	q := url.Values{}
	if f.Month > 0 {
		q.Set("month", strconv.Itoa(f.Month))
	}
	if f.Year > 0 {
		q.Set("year", strconv.Itoa(f.Year))
	}
	if !f.CategoryID.IsZero() {
		q.Set("category_id", f.CategoryID.String())
	}
	if f.Type != "" {
		q.Set("type", string(f.Type))
	}
	return q
}

// List returns the transactions matching filter.
func (s *TransactionsService) List(ctx context.Context, filter model.TransactionFilter) ([]model.Transaction, error) {
	var txns []model.Transaction
	if err := s.client.Get(ctx, "/transactions", FilterQuery(filter), &txns); err != nil {
		return nil, err
	}
	return txns, nil
}

// Create adds a transaction. Installment purchases are split by the server.
func (s *TransactionsService) Create(ctx context.Context, payload model.TransactionPayload) (*model.Transaction, error) {
	var txn model.Transaction
	if err := s.client.Post(ctx, "/transactions", payload, &txn); err != nil {
		return nil, err
	}
	return &txn, nil
}

// Update replaces the fields of a transaction.
func (s *TransactionsService) Update(ctx context.Context, id model.ID, payload model.TransactionPayload) (*model.Transaction, error) {
	var txn model.Transaction
	if err := s.client.Put(ctx, "/transactions/"+url.PathEscape(id.String()), payload, &txn); err != nil {
		return nil, err
	}
	return &txn, nil
}

// Delete removes a transaction.
func (s *TransactionsService) Delete(ctx context.Context, id model.ID) error {
	return s.client.Delete(ctx, "/transactions/"+url.PathEscape(id.String()))
}

// ImportFile is a statement uploaded for server-side parsing.
type ImportFile struct {
	Body      io.Reader
	Filename  string
	AccountID model.ID
}

// Import uploads a CSV statement as multipart form data. The body is
// streamed, so wrapping it in a progress reader reports upload progress.
func (s *TransactionsService) Import(ctx context.Context, file ImportFile) (*model.ImportResult, error) {
	var result model.ImportResult
	if err := s.client.upload(ctx, "/transactions/import", file, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) upload(ctx context.Context, path string, file ImportFile, out any) error {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		err := writeMultipart(mw, file)
		if closeErr := mw.Close(); err == nil {
			err = closeErr
		}
		pw.CloseWithError(err)
	}()

	err := c.do(ctx, http.MethodPost, path, nil, pr, mw.FormDataContentType(), out)
	_ = pr.Close()
	return err
}

func writeMultipart(mw *multipart.Writer, file ImportFile) error {
	part, err := mw.CreateFormFile("file", filepath.Base(file.Filename))
	if err != nil {
		return fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, file.Body); err != nil {
		return fmt.Errorf("failed to stream %s: %w", file.Filename, err)
	}
	if !file.AccountID.IsZero() {
		if err := mw.WriteField("account_id", file.AccountID.String()); err != nil {
			return fmt.Errorf("failed to write account id: %w", err)
		}
	}
	return nil
}
