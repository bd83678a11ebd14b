package tags

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/authoring-labs/debugtags/internal/api"
	"github.com/authoring-labs/debugtags/internal/l10n"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Rename asks for a new title for tag id and applies it.
func (v *View) Rename(ctx context.Context, id string) error {
	row, ok := v.Row(id)
	if !ok {
		return v.unknown(l10n.RenameFailed, id)
	}

	resp, err := v.ask(ctx, DialogOptions{
		Kind:  DialogInput,
		Title: v.printer.Sprintf(l10n.RenameTitle),
		Value: row.Tag.Title,
	})
	if err != nil {
		return err
	}
	title := strings.TrimSpace(resp.Value)
	if title == "" {
		return ErrCancelled
	}

	if err := v.src.RenameTag(ctx, id, title); err != nil {
		return v.fail(l10n.RenameFailed, err)
	}
	v.notifier.Toast(Notice{
		Kind: NoticeSuccess,
		Text: v.printer.Sprintf(l10n.RenameSuccess, row.Tag.Title, title),
	})
	v.refreshAfter(ctx)
	return nil
}

// Transfer asks for a destination tag and moves everything tagged with id
// onto it. The source tag is not deleted.
func (v *View) Transfer(ctx context.Context, id string) error {
	snap, _ := v.State()
	row, ok := snap.Row(id)
	if !ok {
		return v.unknown(l10n.TransferFailed, id)
	}

	choices := make([]Choice, 0, len(snap.Rows))
	for _, r := range snap.Rows {
		if r.Tag.ID == id {
			continue
		}
		choices = append(choices, Choice{Value: r.Tag.ID, Label: r.Tag.Title})
	}
	if len(choices) == 0 {
		return v.fail(l10n.TransferFailed, errors.New("no other tags to transfer to"))
	}

	resp, err := v.ask(ctx, DialogOptions{
		Kind:    DialogSelect,
		Title:   v.printer.Sprintf(l10n.TransferTitle),
		Text:    row.Tag.Title,
		Choices: choices,
	})
	if err != nil {
		return err
	}
	dest, ok := snap.Row(resp.Value)
	if !ok || dest.Tag.ID == id {
		return v.unknown(l10n.TransferFailed, resp.Value)
	}

	if err := v.src.TransferTag(ctx, id, dest.Tag.ID); err != nil {
		return v.fail(l10n.TransferFailed, err)
	}
	v.notifier.Toast(Notice{
		Kind: NoticeSuccess,
		Text: v.printer.Sprintf(l10n.TransferSuccess, row.Tag.Title, dest.Tag.Title),
	})
	v.refreshAfter(ctx)
	return nil
}

// Delete removes tag id.
func (v *View) Delete(ctx context.Context, id string) error {
	row, ok := v.Row(id)
	if !ok {
		return v.unknown(l10n.DeleteFailed, id)
	}

	if err := v.src.DeleteTag(ctx, id); err != nil {
		return v.fail(l10n.DeleteFailed, err)
	}
	v.notifier.Toast(Notice{
		Kind: NoticeSuccess,
		Text: v.printer.Sprintf(l10n.DeleteSuccess, row.Tag.Title),
	})
	v.refreshAfter(ctx)
	return nil
}

// DeleteUnused removes every tag flagged unused in the current snapshot
// after the operator confirms. Deletion continues past individual failures;
// the view is refreshed once if anything was deleted.
func (v *View) DeleteUnused(ctx context.Context) error {
	snap, _ := v.State()
	unused := snap.UnusedRows()
	if len(unused) == 0 {
		v.notifier.Toast(Notice{Kind: NoticeSuccess, Text: v.printer.Sprintf(l10n.PruneNone)})
		return nil
	}

	if _, err := v.ask(ctx, DialogOptions{
		Kind:  DialogConfirm,
		Title: v.printer.Sprintf(l10n.PruneTitle),
		Text:  v.printer.Sprintf(l10n.PruneConfirm, len(unused)),
	}); err != nil {
		return err
	}

	var (
		errs    error
		deleted int
	)
	for _, r := range unused {
		if err := v.src.DeleteTag(ctx, r.Tag.ID); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("'%s': %s", r.Tag.Title, describe(err)))
			continue
		}
		deleted++
	}

	if deleted > 0 {
		v.notifier.Toast(Notice{Kind: NoticeSuccess, Text: v.printer.Sprintf(l10n.PruneSuccess, deleted)})
	}
	if errs != nil {
		v.fail(l10n.PruneFailed, errs)
	}
	if deleted > 0 {
		v.refreshAfter(ctx)
	}
	return errs
}

// ask presents a dialog and converts a dismissed or abandoned dialog into
// ErrCancelled.
func (v *View) ask(ctx context.Context, opts DialogOptions) (DialogResponse, error) {
	resp, err := v.dialog.Confirm(ctx, opts)
	if err != nil {
		if ctx.Err() != nil || errors.Is(err, ErrCancelled) {
			return DialogResponse{}, ErrCancelled
		}
		return DialogResponse{}, fmt.Errorf("dialog %q: %w", opts.Title, err)
	}
	if resp.Cancelled {
		return DialogResponse{}, ErrCancelled
	}
	return resp, nil
}

// refreshAfter re-fetches once a mutation has resolved. A failed refresh is
// already logged by Fetch and does not fail the action.
func (v *View) refreshAfter(ctx context.Context) {
	_ = v.Refresh(ctx)
}

func (v *View) fail(titleKey string, err error) error {
	v.logger.Warn("tag action failed", zap.String("action", titleKey), zap.Error(err))
	v.notifier.Alert(Notice{
		Kind:  NoticeError,
		Title: v.printer.Sprintf(titleKey),
		Text:  describe(err),
	})
	return err
}

func (v *View) unknown(titleKey, id string) error {
	v.notifier.Alert(Notice{
		Kind:  NoticeError,
		Title: v.printer.Sprintf(titleKey),
		Text:  v.printer.Sprintf(l10n.UnknownTag, id),
	})
	return fmt.Errorf("%w: %s", ErrUnknownTag, id)
}

// describe returns the message shown to the operator for err: the host's
// message for API errors, the error text otherwise.
func describe(err error) string {
	errs := multierr.Errors(err)
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		var apiErr *api.Error
		if errors.As(e, &apiErr) {
			msgs = append(msgs, apiErr.Error())
			continue
		}
		msgs = append(msgs, e.Error())
	}
	return strings.Join(msgs, "; ")
}
