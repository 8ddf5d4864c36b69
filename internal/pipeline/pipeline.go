// Package pipeline wires the recovery stages together: segment the raw
// response, strip any lock markers the model echoed back, normalize each
// segment to its canonical record, and persist. The outbound direction
// re-applies the lock overlay and renders the previous-state prompt blocks.
// The pipeline is synchronous; callers serialize turns against one store.
package pipeline

import (
	"encoding/json"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"tracknerd/internal/config"
	"tracknerd/internal/lock"
	"tracknerd/internal/normalize"
	"tracknerd/internal/prompt"
	"tracknerd/internal/segment"
	"tracknerd/internal/store"
	"tracknerd/internal/track"
)

// Pipeline processes one model turn at a time against a settings store.
type Pipeline struct {
	cfg  *config.Config
	st   store.Store
	seg  *segment.Segmenter
	norm *normalize.Normalizer
	log  *zap.Logger
}

// New builds a Pipeline. A nil logger is replaced with a no-op logger, a
// nil config with the stock defaults.
func New(cfg *config.Config, st store.Store, log *zap.Logger) *Pipeline {
	if cfg == nil {
		cfg = config.Default()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Pipeline{
		cfg:  cfg,
		st:   st,
		seg:  segment.New(log),
		norm: normalize.New(cfg, log),
		log:  log,
	}
}

// TurnResult reports what one inbound turn contributed. A kind left nil
// means the model omitted that tracker; ParsingFailed means no strategy
// recovered anything and the store was left untouched.
type TurnResult struct {
	TurnID        string
	ParsingFailed bool
	Strategy      string
	Warnings      []string

	Stats      *track.StatsRecord
	InfoBox    *track.InfoBoxRecord
	Characters []track.CharacterRecord
}

// ProcessTurn recovers tracker state from one raw model response and
// overwrites the stored records for every kind that parsed. Failure is a
// flag, never an error: the worst case is a turn that contributes nothing,
// with last-known-good state retained.
func (p *Pipeline) ProcessTurn(raw string) *TurnResult {
	res := p.seg.Segment(raw)
	out := &TurnResult{
		TurnID:        uuid.NewString(),
		ParsingFailed: res.ParsingFailed,
		Strategy:      res.Strategy,
		Warnings:      res.Warnings,
	}
	if res.ParsingFailed {
		p.log.Warn("turn contributed no tracker update", zap.String("turn", out.TurnID))
		return out
	}
	p.log.Debug("turn segmented",
		zap.String("turn", out.TurnID),
		zap.String("strategy", res.Strategy))

	if seg := res.StatsJSON; seg != "" {
		rec := p.norm.Stats(lock.Remove(seg))
		out.Stats = rec
		p.persist(track.KindUserStats, rec)
	}
	if seg := res.InfoBoxJSON; seg != "" {
		rec := p.norm.InfoBox(lock.Remove(seg))
		out.InfoBox = rec
		p.persist(track.KindInfoBox, rec)
	}
	if seg := res.CharactersJSON; seg != "" {
		recs := p.norm.Characters(lock.Remove(seg))
		out.Characters = recs
		if len(recs) > 0 {
			p.persist(track.KindCharacters, recs)
		}
	}
	return out
}

func (p *Pipeline) persist(kind track.Kind, rec any) {
	b, err := json.Marshal(rec)
	if err != nil {
		p.log.Error("record not serializable", zap.String("kind", string(kind)), zap.Error(err))
		return
	}
	p.st.Set(kind, string(b))
}

// Outbound renders the lock-annotated previous tracker state for the next
// model call.
func (p *Pipeline) Outbound() string {
	states := make(map[track.Kind]string)
	locks := p.st.Locks()
	for _, kind := range track.Kinds {
		rec, ok := p.st.Get(kind)
		if !ok {
			continue
		}
		states[kind] = lock.Apply(rec, locks.Node(kind))
	}
	return prompt.Previous(states)
}

// Record returns the stored canonical record for a kind, lock-free.
func (p *Pipeline) Record(kind track.Kind) (string, bool) {
	return p.st.Get(kind)
}
