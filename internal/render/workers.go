package render

import (
	"go.uber.org/zap"

	"github.com/MrJamesThe3rd/mandi/internal/claim"
	"github.com/MrJamesThe3rd/mandi/internal/invoice"
	"github.com/MrJamesThe3rd/mandi/internal/queue"
)

// Workers returns one worker per PDF queue, each configured like base apart from its queue name.
func Workers(base queue.WorkerConfig, repo queue.Repository, invoicePDF, certificate queue.Handler, logger *zap.Logger) []*queue.Worker {
	invoiceCfg := base
	invoiceCfg.Queue = invoice.QueuePDF

	iw := queue.NewWorker(invoiceCfg, repo, logger)
	iw.Handle(invoice.JobGeneratePDF, invoicePDF)

	claimCfg := base
	claimCfg.Queue = claim.QueueClaimForm

	cw := queue.NewWorker(claimCfg, repo, logger)
	cw.Handle(claim.JobDamageCertificate, certificate)

	return []*queue.Worker{iw, cw}
}
