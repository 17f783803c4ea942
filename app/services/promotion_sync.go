package services

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/josebdo/Cristal-Event-Planner/app/models"
	"github.com/josebdo/Cristal-Event-Planner/app/repositories"
	"github.com/josebdo/Cristal-Event-Planner/app/utils/metrics"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	OpLink   = "link"
	OpUnlink = "unlink"

	defaultSyncConcurrency = 8
)

// ReconcileResult lists what a reconciliation did, ids sorted.
type ReconcileResult struct {
	PromotionID string
	Linked      []string
	Unlinked    []string
	Failures    []ProductFailure
}

// PromotionSynchronizer keeps products.seasonal_promotion_id consistent with
// the selection an admin made for one promotion.
type PromotionSynchronizer struct {
	linker      repositories.PromotionLinker
	concurrency int
}

func NewPromotionSynchronizer(linker repositories.PromotionLinker) *PromotionSynchronizer {
	return &PromotionSynchronizer{linker: linker, concurrency: defaultSyncConcurrency}
}

// Reconcile unlinks every previously linked product missing from selected
// and (re)links every selected product with its label. Row writes run
// concurrently and are not atomic as a group: every row is attempted, and
// when any fails the result comes back together with a
// *PartialReconciliationError.
//
// It must only be called once the promotion row itself is stored.
func (s *PromotionSynchronizer) Reconcile(ctx context.Context, promotion *models.SeasonalPromotion, previous []string, selected map[string]string) (*ReconcileResult, error) {
	toUnlink := UnlinkSet(previous, selected)
	toLink := make([]string, 0, len(selected))
	for id := range selected {
		if strings.TrimSpace(id) != "" {
			toLink = append(toLink, id)
		}
	}
	sort.Strings(toLink)

	result := &ReconcileResult{
		PromotionID: promotion.ID,
		Linked:      []string{},
		Unlinked:    []string{},
	}

	var mu sync.Mutex
	record := func(op, productID string, err error) {
		mu.Lock()
		defer mu.Unlock()

		if err != nil {
			zap.S().Warnw("Reconcile: product update failed",
				"promotion_id", promotion.ID, "product_id", productID, "op", op, "error", err)
			metrics.ReconcileRowsTotal.WithLabelValues(op, "failed").Inc()
			result.Failures = append(result.Failures, ProductFailure{ProductID: productID, Op: op, Err: storeError(err)})
			return
		}
		metrics.ReconcileRowsTotal.WithLabelValues(op, "ok").Inc()
		if op == OpLink {
			result.Linked = append(result.Linked, productID)
		} else {
			result.Unlinked = append(result.Unlinked, productID)
		}
	}

	// Workers never return an error so one failing row cannot cancel the rest.
	var g errgroup.Group
	g.SetLimit(s.concurrency)

	for _, id := range toUnlink {
		id := id
		g.Go(func() error {
			record(OpUnlink, id, s.linker.UnlinkPromotion(ctx, id))
			return nil
		})
	}
	for _, id := range toLink {
		id := id
		label := DiscountLabel(selected[id], promotion.Name)
		g.Go(func() error {
			record(OpLink, id, s.linker.LinkPromotion(ctx, id, promotion.ID, label))
			return nil
		})
	}
	_ = g.Wait()

	sort.Strings(result.Linked)
	sort.Strings(result.Unlinked)
	sort.Slice(result.Failures, func(i, j int) bool {
		return result.Failures[i].ProductID < result.Failures[j].ProductID
	})

	if len(result.Failures) > 0 {
		metrics.ReconcileRunsTotal.WithLabelValues("partial").Inc()
		return result, &PartialReconciliationError{
			PromotionID: promotion.ID,
			Failures:    result.Failures,
			Succeeded:   len(result.Linked) + len(result.Unlinked),
		}
	}

	metrics.ReconcileRunsTotal.WithLabelValues("ok").Inc()
	zap.S().Infow("Reconcile: promotion products synchronized",
		"promotion_id", promotion.ID, "linked", len(result.Linked), "unlinked", len(result.Unlinked))
	return result, nil
}

// UnlinkSet is previous minus the selected ids, deduplicated and sorted.
func UnlinkSet(previous []string, selected map[string]string) []string {
	seen := make(map[string]struct{}, len(previous))
	out := make([]string, 0, len(previous))
	for _, id := range previous {
		if id == "" {
			continue
		}
		if _, keep := selected[id]; keep {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// DiscountLabel is the trimmed admin label, or the promotion name when blank.
func DiscountLabel(label, promotionName string) string {
	if l := strings.TrimSpace(label); l != "" {
		return l
	}
	return promotionName
}
