// Package console implements the interactive menu over the record service.
package console

import (
	"context"
	"errors"
	"fmt"
	"io"

	"travelrec/internal/domain"
	"travelrec/internal/service"
	"travelrec/internal/sorting"

	"go.uber.org/zap"
)

// Menu options
const (
	optLoad = iota + 1
	optSave
	optDisplay
	optCreate
	optEdit
	optDelete
	optSort
	optExit
)

var menuItems = []string{
	optLoad:    "Reload records from the store",
	optSave:    "Save records to the store",
	optDisplay: "Display records",
	optCreate:  "Create a new record",
	optEdit:    "Edit a record",
	optDelete:  "Delete a record",
	optSort:    "Sort records",
	optExit:    "Exit",
}

// Options configures the console
type Options struct {
	Color  bool
	Banner string // printed under the menu, empty for none
}

// Console runs the menu loop. It owns the in-memory collection and hands it
// to the service for every operation.
type Console struct {
	svc     *service.RecordService
	records []domain.Record
	prompt  *Prompter
	out     io.Writer
	style   style
	banner  string
	logger  *zap.Logger
}

// New creates a console reading answers from in and writing to out
func New(svc *service.RecordService, in io.Reader, out io.Writer, opts Options, logger *zap.Logger) *Console {
	if logger == nil {
		logger = zap.NewNop()
	}
	st := style{color: opts.Color}
	return &Console{
		svc:    svc,
		prompt: NewPrompter(in, out, st),
		out:    out,
		style:  st,
		banner: opts.Banner,
		logger: logger.Named("console"),
	}
}

// Records returns the current in-memory collection
func (c *Console) Records() []domain.Record {
	return c.records
}

// Run loads the collection and serves the menu until the user exits or
// input ends. Operation failures are reported and never end the loop.
func (c *Console) Run(ctx context.Context) error {
	c.load(ctx)

	for {
		c.info("Welcome to the Travel Records Management System!")
		choice, err := c.menu()
		if err != nil {
			return c.finish(err)
		}

		switch choice {
		case optLoad:
			c.load(ctx)
		case optSave:
			c.save(ctx)
		case optDisplay:
			err = c.display()
		case optCreate:
			err = c.create(ctx)
		case optEdit:
			err = c.edit(ctx)
		case optDelete:
			err = c.delete(ctx)
		case optSort:
			err = c.sort()
		case optExit:
			c.info("Exiting the application. Goodbye!")
			return nil
		}
		if err != nil {
			return c.finish(err)
		}
	}
}

// finish turns end of input into a clean exit
func (c *Console) finish(err error) error {
	if errors.Is(err, io.EOF) {
		fmt.Fprintln(c.out)
		c.logger.Debug("input closed")
		return nil
	}
	return err
}

func (c *Console) menu() (int, error) {
	fmt.Fprintln(c.out, "\nOptions:")
	for i := optLoad; i <= optExit; i++ {
		fmt.Fprintf(c.out, "%d. %s\n", i, menuItems[i])
	}
	if c.banner != "" {
		c.info(c.banner)
	}
	return c.prompt.Choice("Enter your choice: ", optLoad, optExit)
}

func (c *Console) load(ctx context.Context) {
	records, err := c.svc.Load(ctx)
	if err != nil {
		c.fail("Error loading records", err)
		return
	}
	c.records = records
	c.info(fmt.Sprintf("Loaded %d records from %s.", len(records), c.svc.Kind()))
}

func (c *Console) save(ctx context.Context) {
	if err := c.svc.Save(ctx, c.records); err != nil {
		c.fail("Error saving records", err)
		return
	}
	c.info(fmt.Sprintf("Saved %d records to %s.", len(c.records), c.svc.Kind()))
}

func (c *Console) display() error {
	if len(c.records) == 0 {
		c.info("No records to display.")
		return nil
	}

	fmt.Fprintln(c.out, "1. Display all records")
	fmt.Fprintln(c.out, "2. Display a single record")
	choice, err := c.prompt.Choice("Enter your choice: ", 1, 2)
	if err != nil {
		return err
	}

	ref := ""
	title := "Travel Records Table"
	if choice == 2 {
		if ref, err = c.prompt.Required("Enter the reference number of the record to display: "); err != nil {
			return err
		}
		title = "Travel Record Details"
	}

	records, err := c.svc.Read(c.records, ref)
	if err != nil {
		c.fail("Record not found", err)
		return nil
	}
	return writeTable(c.out, c.style, title, records)
}

func (c *Console) create(ctx context.Context) error {
	ref, err := c.prompt.Required("Enter reference number: ")
	if err != nil {
		return err
	}
	record, err := c.askDetails(domain.Record{RefNumber: ref}, false)
	if err != nil {
		return err
	}

	records, err := c.svc.Create(ctx, c.records, record)
	if err != nil {
		c.fail("Error creating record", err)
		return nil
	}
	c.records = records
	c.info("Record created successfully.")
	return nil
}

func (c *Console) edit(ctx context.Context) error {
	ref, err := c.prompt.Required("Enter the reference number of the record to edit: ")
	if err != nil {
		return err
	}

	original := domain.Record{RefNumber: ref}
	if i := domain.FindRecord(c.records, ref); i >= 0 {
		original = c.records[i]
	} else if !c.svc.WriteThrough() {
		c.fail("Error editing record", fmt.Errorf("%w: record %s", domain.ErrNotFound, ref))
		return nil
	} else {
		c.info("No such record; a new one will be created.")
	}

	draft := original
	if draft.RefNumber, err = c.prompt.Text("Reference number", original.RefNumber); err != nil {
		return err
	}
	edited, err := c.askDetails(draft, true)
	if err != nil {
		return err
	}

	records, err := c.svc.Update(ctx, c.records, ref, diff(original, edited))
	if err != nil {
		c.fail("Error editing record", err)
		return nil
	}
	c.records = records
	c.info("Record edited successfully.")
	return nil
}

func (c *Console) delete(ctx context.Context) error {
	ref, err := c.prompt.Required("Enter the reference number of the record to delete: ")
	if err != nil {
		return err
	}

	records, err := c.svc.Delete(ctx, c.records, ref)
	if err != nil {
		c.fail("Error deleting record", err)
		return nil
	}
	c.records = records
	c.info("Record deleted successfully.")
	return nil
}

func (c *Console) sort() error {
	if len(c.records) == 0 {
		c.info("No records to sort.")
		return nil
	}

	answer, err := c.prompt.Line("Sort by (e.g. total:desc,ref_number): ")
	if err != nil {
		return err
	}
	keys, err := sorting.ParseKeys(answer)
	if err != nil {
		c.fail("Error sorting records", err)
		return nil
	}

	sorted, err := c.svc.Sort(c.records, keys)
	if err != nil {
		c.fail("Error sorting records", err)
		return nil
	}
	c.records = sorted
	return writeTable(c.out, c.style, "Travel Records Table", sorted)
}

// askDetails prompts for every field after the reference number, offering
// the values in r as defaults
func (c *Console) askDetails(r domain.Record, editing bool) (domain.Record, error) {
	var err error
	p := c.prompt

	if r.Title, err = p.Text("Enter title in English", r.Title); err != nil {
		return r, err
	}
	if r.Purpose, err = p.Text("Enter purpose of travel in English", r.Purpose); err != nil {
		return r, err
	}
	if r.StartDate, err = p.Date("Enter start date of travel (YYYY-MM-DD)", r.StartDate); err != nil {
		return r, err
	}
	if r.EndDate, err = p.Date("Enter end date of travel (YYYY-MM-DD)", r.EndDate); err != nil {
		return r, err
	}

	before := r.ComputedTotal()
	if r.Airfare, err = p.Amount("Enter cost of airfare", r.Airfare); err != nil {
		return r, err
	}
	if r.OtherTransport, err = p.Amount("Enter cost of other transportation", r.OtherTransport); err != nil {
		return r, err
	}
	if r.Lodging, err = p.Amount("Enter cost of lodging", r.Lodging); err != nil {
		return r, err
	}
	if r.Meals, err = p.Amount("Enter cost of meals", r.Meals); err != nil {
		return r, err
	}
	if r.OtherExpenses, err = p.Amount("Enter cost of other expenses", r.OtherExpenses); err != nil {
		return r, err
	}

	// Keep an edited total unless the costs changed under it
	total := r.ComputedTotal()
	if editing && total.Equal(before) {
		total = r.Total
	}
	if r.Total, err = p.Amount("Enter total cost", total); err != nil {
		return r, err
	}
	if !r.TotalMatches() {
		c.info(fmt.Sprintf("Note: total %s differs from the sum of costs %s.",
			formatMoney(r.Total), formatMoney(r.ComputedTotal())))
	}
	return r, nil
}

func (c *Console) info(msg string) {
	fmt.Fprintln(c.out, c.style.info(msg))
}

func (c *Console) fail(prefix string, err error) {
	if service.IsUserError(err) {
		c.logger.Debug(prefix, zap.Error(err))
	} else {
		c.logger.Warn(prefix, zap.Error(err))
	}
	fmt.Fprintln(c.out, c.style.err(fmt.Sprintf("%s: %v", prefix, err)))
}

// diff builds a patch holding the fields of edited that differ from
// original
func diff(original, edited domain.Record) domain.Patch {
	var p domain.Patch
	full := domain.FullPatch(edited)

	if edited.RefNumber != original.RefNumber {
		p.RefNumber = full.RefNumber
	}
	if edited.Title != original.Title {
		p.Title = full.Title
	}
	if edited.Purpose != original.Purpose {
		p.Purpose = full.Purpose
	}
	if !edited.StartDate.Equal(original.StartDate) {
		p.StartDate = full.StartDate
	}
	if !edited.EndDate.Equal(original.EndDate) {
		p.EndDate = full.EndDate
	}
	if !edited.Airfare.Equal(original.Airfare) {
		p.Airfare = full.Airfare
	}
	if !edited.OtherTransport.Equal(original.OtherTransport) {
		p.OtherTransport = full.OtherTransport
	}
	if !edited.Lodging.Equal(original.Lodging) {
		p.Lodging = full.Lodging
	}
	if !edited.Meals.Equal(original.Meals) {
		p.Meals = full.Meals
	}
	if !edited.OtherExpenses.Equal(original.OtherExpenses) {
		p.OtherExpenses = full.OtherExpenses
	}
	if !edited.Total.Equal(original.Total) {
		p.Total = full.Total
	}
	return p
}
