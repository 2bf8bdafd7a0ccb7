package render

import "time"

func (h *InvoicePDFHandler) SetClock(now func() time.Time) { h.now = now }

func (h *DamageCertificateHandler) SetClock(now func() time.Time) { h.now = now }
