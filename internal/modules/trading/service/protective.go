package service

import (
	"context"

	okx "okx_exec_proxy/internal/modules/okx_client/service"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type ProtectiveIntent struct {
	InstID         string
	InstType       string
	TdMode         string
	CancelExisting bool
	// Amend - попробовать править висящий ордер вместо cancel+create.
	// Срабатывает только если висит ровно один ордер того же типа.
	Amend bool
	Spec  ProtectiveSpec
}

// ProtectiveResult - отменённые algoId и новый (или поправленный) ордер.
// Между отменой и созданием есть окно без защиты: операция не атомарна.
type ProtectiveResult struct {
	NetPosSz       string                   `json:"netPosSz"`
	Cancelled      []string                 `json:"cancelled"`
	CancelResponse *okx.Reply[okx.AlgoAck]  `json:"cancelResponse,omitempty"`
	Amended        bool                     `json:"amended"`
	AmendResponse  *okx.Reply[okx.AmendAck] `json:"amendResponse,omitempty"`
	AmendWarning   *Warning                 `json:"amendWarning,omitempty"`
	Request        *okx.AlgoOrderRequest    `json:"request,omitempty"`
	Created        *okx.Reply[okx.AlgoAck]  `json:"response,omitempty"`
	CreatedIDs     []string                 `json:"created"`
}

type Reconciler struct {
	oracle   *Oracle
	ex       Exchange
	builder  *IntentBuilder
	notifier Notifier
	log      *zap.Logger
}

func NewReconciler(oracle *Oracle, ex Exchange, builder *IntentBuilder, notifier Notifier, log *zap.Logger) *Reconciler {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Reconciler{oracle: oracle, ex: ex, builder: builder, notifier: notifier, log: log.Named("reconciler")}
}

// SetProtective: позиция -> (amend | cancel пачкой) -> новый TP/SL.
// Без tp/sl не делает ни одного вызова. Плоская позиция - ErrFlatPosition.
func (r *Reconciler) SetProtective(ctx context.Context, in ProtectiveIntent) (*ProtectiveResult, error) {
	if err := r.builder.ValidateProtective(in.Spec); err != nil {
		return nil, err
	}

	pos, err := r.oracle.NetPosition(ctx, in.InstType, in.InstID)
	if err != nil {
		return nil, err
	}
	if pos.Flat() {
		return nil, errors.Wrapf(ErrFlatPosition, "protective %s", in.InstID)
	}

	tdMode := in.TdMode
	if tdMode == "" {
		tdMode = pos.MarginMode
	}
	req, err := r.builder.Protective(in.InstID, tdMode, pos.PosSide, pos.Side(), pos.Abs(), in.Spec)
	if err != nil {
		return nil, err
	}
	res := &ProtectiveResult{NetPosSz: pos.Size.String(), Cancelled: []string{}, CreatedIDs: []string{}}

	if !in.CancelExisting && !in.Amend {
		return r.create(ctx, res, req)
	}

	pending, err := r.pending(ctx, in)
	if err != nil {
		return res, err
	}

	if in.Amend && len(pending) == 1 && pending[0].OrdType == req.OrdType {
		amend := r.builder.Amend(pending[0].AlgoID, req)
		ack, err := r.ex.AmendAlgo(ctx, amend)
		if err == nil {
			res.Amended = true
			res.AmendResponse = ack
			res.CreatedIDs = append(res.CreatedIDs, pending[0].AlgoID)
			r.log.Info("protective amended", zap.String("instId", in.InstID), zap.String("algoId", amend.AlgoID))
			return res, nil
		}
		res.AmendWarning = newWarning("amend failed, falling back to cancel and recreate", err)
		r.log.Warn("amend failed", zap.String("instId", in.InstID), zap.String("algoId", amend.AlgoID), zap.Error(err))
	}

	if len(pending) > 0 {
		cancel := make([]okx.CancelAlgoRequest, 0, len(pending))
		for _, p := range pending {
			cancel = append(cancel, okx.CancelAlgoRequest{AlgoID: p.AlgoID, InstID: in.InstID})
		}
		ack, err := r.ex.CancelAlgos(ctx, cancel)
		if err != nil {
			// ничего не создаём: непонятно, что из старого осталось висеть
			return res, errors.Wrapf(err, "cancel %d pending algos on %s", len(cancel), in.InstID)
		}
		res.CancelResponse = ack
		for _, c := range cancel {
			res.Cancelled = append(res.Cancelled, c.AlgoID)
		}
		r.log.Info("pending protective cancelled", zap.String("instId", in.InstID), zap.Strings("algoIds", res.Cancelled))
	}

	return r.create(ctx, res, req)
}

func (r *Reconciler) pending(ctx context.Context, in ProtectiveIntent) ([]okx.PendingAlgo, error) {
	reply, err := r.ex.PendingAlgos(ctx, r.builder.InstType(in.InstType), in.InstID, okx.AlgoConditional, okx.AlgoOCO)
	if err != nil {
		return nil, errors.Wrapf(err, "list pending algos on %s", in.InstID)
	}
	if reply == nil {
		return nil, nil
	}
	out := make([]okx.PendingAlgo, 0, len(reply.Data))
	for _, p := range reply.Data {
		if p.AlgoID == "" || (p.InstID != "" && p.InstID != in.InstID) {
			continue
		}
		if p.OrdType != okx.AlgoConditional && p.OrdType != okx.AlgoOCO {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *Reconciler) create(ctx context.Context, res *ProtectiveResult, req okx.AlgoOrderRequest) (*ProtectiveResult, error) {
	res.Request = &req
	ack, err := r.ex.PlaceAlgo(ctx, req)
	if err != nil {
		if len(res.Cancelled) > 0 {
			r.notifier.SendService(ctx, "🚨 %s: cancelled %v but new %s was rejected: %v",
				req.InstID, res.Cancelled, req.OrdType, err)
		}
		return res, errors.Wrapf(err, "place %s on %s", req.OrdType, req.InstID)
	}
	res.Created = ack
	for _, a := range ack.Data {
		if a.AlgoID != "" {
			res.CreatedIDs = append(res.CreatedIDs, a.AlgoID)
		}
	}
	r.log.Info("protective placed",
		zap.String("instId", req.InstID), zap.String("ordType", req.OrdType),
		zap.String("side", req.Side), zap.String("sz", req.Sz), zap.Strings("algoIds", res.CreatedIDs))
	return res, nil
}
