package app

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/example/stockroom/internal/core/admin"
	"github.com/example/stockroom/internal/core/form"
	"github.com/example/stockroom/internal/ports/primary"
	"github.com/example/stockroom/internal/ports/secondary"
)

// AdminServiceImpl implements the AdminService interface.
type AdminServiceImpl struct {
	site      *admin.Site
	adminRepo secondary.AdminRepository
	logRepo   secondary.AdminLogRepository
	logWriter secondary.LogWriter
}

// NewAdminService creates a new AdminService with injected dependencies.
func NewAdminService(site *admin.Site, adminRepo secondary.AdminRepository, logRepo secondary.AdminLogRepository, logWriter secondary.LogWriter) *AdminServiceImpl {
	return &AdminServiceImpl{
		site:      site,
		adminRepo: adminRepo,
		logRepo:   logRepo,
		logWriter: logWriter,
	}
}

// Models lists the registered models.
func (s *AdminServiceImpl) Models() []*admin.ModelAdmin {
	return s.site.Models()
}

// Changelist lists rows of a model with search and sidebar filters applied.
func (s *AdminServiceImpl) Changelist(ctx context.Context, model string, req primary.ChangelistRequest) (*primary.Changelist, error) {
	m, err := s.model(model)
	if err != nil {
		return nil, err
	}
	table := tableFor(m)

	filters := m.CleanFilters(req.Filters)
	search := strings.TrimSpace(req.Search)
	rows, err := s.adminRepo.List(ctx, table, secondary.AdminQuery{
		Search:        search,
		SearchColumns: m.SearchFields,
		Filters:       filters,
		Ordering:      m.Ordering,
	})
	if err != nil {
		return nil, err
	}

	total := len(rows)
	if search != "" || len(filters) > 0 {
		if total, err = s.adminRepo.Count(ctx, table); err != nil {
			return nil, err
		}
	}

	cl := &primary.Changelist{Model: m, Search: search, Total: total}
	for _, col := range m.ListDisplay {
		cl.Columns = append(cl.Columns, primary.AdminColumn{Name: col, Label: m.ColumnLabel(col)})
	}

	for _, row := range rows {
		listRow := &primary.AdminListRow{ID: row.ID, Repr: m.Describe(row.ID, row.Values)}
		for _, col := range m.ListDisplay {
			listRow.Cells = append(listRow.Cells, formatCell(row.Values[col]))
		}
		cl.Rows = append(cl.Rows, listRow)
	}

	for _, col := range m.ListFilter {
		choices, err := s.adminRepo.Distinct(ctx, table, col)
		if err != nil {
			return nil, err
		}
		cl.Filters = append(cl.Filters, primary.AdminFilter{
			Column:   col,
			Label:    m.ColumnLabel(col),
			Choices:  choices,
			Selected: filters[col],
		})
	}

	return cl, nil
}

// GetObject loads one row into its model's form.
func (s *AdminServiceImpl) GetObject(ctx context.Context, model string, id int64) (*primary.AdminObject, error) {
	m, err := s.model(model)
	if err != nil {
		return nil, err
	}
	return s.load(ctx, m, id)
}

// AddObject validates data with the model's form and inserts a row.
func (s *AdminServiceImpl) AddObject(ctx context.Context, model string, data form.Data) (*primary.AdminObject, error) {
	m, err := s.model(model)
	if err != nil {
		return nil, err
	}

	values, err := s.clean(ctx, m, data, 0)
	if err != nil {
		return nil, err
	}

	id, err := s.adminRepo.Insert(ctx, tableFor(m), values)
	if err != nil {
		return nil, duplicateAsFieldError(m, err)
	}

	obj, err := s.load(ctx, m, id)
	if err != nil {
		return nil, err
	}

	if s.logWriter != nil {
		_ = s.logWriter.LogCreate(ctx, m.Name, strconv.FormatInt(id, 10), obj.Repr)
	}
	return obj, nil
}

// ChangeObject validates data and overwrites the row's form columns.
func (s *AdminServiceImpl) ChangeObject(ctx context.Context, model string, id int64, data form.Data) (*primary.AdminObject, error) {
	m, err := s.model(model)
	if err != nil {
		return nil, err
	}

	before, err := s.load(ctx, m, id)
	if err != nil {
		return nil, err
	}

	values, err := s.clean(ctx, m, data, id)
	if err != nil {
		return nil, err
	}

	if err := s.adminRepo.Update(ctx, tableFor(m), id, values); err != nil {
		return nil, duplicateAsFieldError(m, err)
	}

	after, err := s.load(ctx, m, id)
	if err != nil {
		return nil, err
	}

	if s.logWriter != nil {
		msg := changeMessage(m.Form, before.Data, after.Data)
		_ = s.logWriter.LogUpdate(ctx, m.Name, strconv.FormatInt(id, 10), after.Repr, msg)
	}
	return after, nil
}

// DeleteObject removes a row and returns what it held.
func (s *AdminServiceImpl) DeleteObject(ctx context.Context, model string, id int64) (*primary.AdminObject, error) {
	m, err := s.model(model)
	if err != nil {
		return nil, err
	}

	obj, err := s.load(ctx, m, id)
	if err != nil {
		return nil, err
	}

	if err := s.adminRepo.Delete(ctx, tableFor(m), id); err != nil {
		return nil, err
	}

	if s.logWriter != nil {
		_ = s.logWriter.LogDelete(ctx, m.Name, strconv.FormatInt(id, 10), obj.Repr)
	}
	return obj, nil
}

// RecentActions returns the newest log entries.
func (s *AdminServiceImpl) RecentActions(ctx context.Context, limit int) ([]*primary.AdminAction, error) {
	records, err := s.logRepo.ListRecent(ctx, limit)
	if err != nil {
		return nil, err
	}

	actions := make([]*primary.AdminAction, len(records))
	for i, r := range records {
		actions[i] = &primary.AdminAction{
			Username:      r.Username,
			EntityType:    r.EntityType,
			EntityID:      r.EntityID,
			ObjectRepr:    r.ObjectRepr,
			Action:        r.Action,
			ChangeMessage: r.ChangeMessage,
			CreatedAt:     r.CreatedAt,
		}
	}
	return actions, nil
}

// Helper methods

func (s *AdminServiceImpl) model(name string) (*admin.ModelAdmin, error) {
	m, ok := s.site.Get(name)
	if !ok {
		return nil, fmt.Errorf("model %q: %w", name, secondary.ErrNotFound)
	}
	return m, nil
}

func (s *AdminServiceImpl) load(ctx context.Context, m *admin.ModelAdmin, id int64) (*primary.AdminObject, error) {
	row, err := s.adminRepo.Get(ctx, tableFor(m), id)
	if err != nil {
		return nil, err
	}

	data := make(form.Data)
	for _, field := range m.Form.Fields {
		if field.Column != "" {
			data[field.Name] = form.Format(row.Values[field.Column])
		}
	}

	return &primary.AdminObject{
		Model: m,
		ID:    row.ID,
		Repr:  m.Describe(row.ID, row.Values),
		Data:  data,
	}, nil
}

// clean binds data and checks unique columns against other rows.
func (s *AdminServiceImpl) clean(ctx context.Context, m *admin.ModelAdmin, data form.Data, id int64) (map[string]any, error) {
	cleaned, errs := m.Form.Bind(data)
	if errs.Any() {
		return nil, primary.NewValidationError(errs)
	}
	values := cleaned.ColumnValues(m.Form)

	for _, col := range m.Unique {
		exists, err := s.adminRepo.Exists(ctx, tableFor(m), col, values[col], id)
		if err != nil {
			return nil, err
		}
		if exists {
			errs.Add(fieldName(m, col), m.DuplicateMessage(col))
		}
	}
	if errs.Any() {
		return nil, primary.NewValidationError(errs)
	}
	return values, nil
}

func tableFor(m *admin.ModelAdmin) secondary.AdminTable {
	return secondary.AdminTable{Name: m.Table, Columns: m.Columns(), Timestamps: m.Timestamps}
}

func fieldName(m *admin.ModelAdmin, col string) string {
	if f, ok := m.Form.ColumnField(col); ok {
		return f.Name
	}
	return form.NonField
}

// duplicateAsFieldError attributes a unique violation to the model's first
// unique column; other errors pass through.
func duplicateAsFieldError(m *admin.ModelAdmin, err error) error {
	if !errors.Is(err, secondary.ErrDuplicate) || len(m.Unique) == 0 {
		return err
	}
	col := m.Unique[0]
	return primary.FieldError(fieldName(m, col), m.DuplicateMessage(col))
}

func formatCell(v any) string {
	switch x := v.(type) {
	case time.Time:
		return x.Format("2006-01-02 15:04")
	case float64:
		return strconv.FormatFloat(x, 'f', 2, 64)
	default:
		return form.Format(v)
	}
}

// Ensure AdminServiceImpl implements the interface.
var _ primary.AdminService = (*AdminServiceImpl)(nil)
