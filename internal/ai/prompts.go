package ai

import (
	"encoding/json"
	"fmt"
)

// draftSchemaDescription is embedded in every prompt so the model
// returns exactly the fields the strict decoder accepts.
const draftSchemaDescription = `Return a single JSON object with exactly this structure and no other fields:
{
  "customer": {
    "name": "customer name, or \"Customer\" if none was mentioned",
    "emails": ["list of email addresses, empty if unknown"],
    "address": "postal address if mentioned",
    "abn": "customer ABN if mentioned"
  },
  "invoice_meta": {
    "invoice_date": "YYYY-MM-DD",
    "due_date": "YYYY-MM-DD",
    "job_address": "job site address if mentioned",
    "gst_enabled": true,
    "prices_include_gst": false
  },
  "line_items": [
    {
      "description": "what was done or supplied",
      "quantity": 1.0,
      "unit": "one of: hr, ea, m, m2, m3, kg, l",
      "unit_price": 0.0,
      "item_type": "labour or material"
    }
  ],
  "notes": "any remarks for the customer",
  "changes_summary": []
}
Use null for unit_price when no price was stated; never invent a price.
Classify items: anything billed per hour is labour; physical goods
(bags, sheets, rolls, fittings, fixtures, parts, supplies, cement, timber,
pipe, cable, wire, plaster, paint, tiles, screws, bolts, nails, brackets)
are material; work activities (installation, labour, repair, service,
callout, consultation, inspection) are labour; default to labour.`

// buildDraftPrompt builds the user prompt for generating a fresh draft
// from dictated or typed job notes.
func buildDraftPrompt(text, invoiceDate, dueDate string, hourlyRateHint float64) string {
	rateHint := "The speaker did not state a default hourly rate."
	if hourlyRateHint > 0 {
		rateHint = fmt.Sprintf("If hours are mentioned without a rate, use the business's default hourly rate of %.2f.", hourlyRateHint)
	}

	return fmt.Sprintf(`A tradesperson described completed work. Build an invoice draft from it.

Description:
%s

Set invoice_date to %s and due_date to %s unless the description says otherwise.
Set gst_enabled to true unless the description says the business is not registered for GST.
%s

%s`, text, invoiceDate, dueDate, rateHint, draftSchemaDescription)
}

// buildCorrectionPrompt builds the user prompt for applying a free-text
// correction to an existing draft. The preservation rules are the load-
// bearing part: the model must return the full draft with only the
// requested changes applied.
func buildCorrectionPrompt(current json.RawMessage, correctionText string) string {
	return fmt.Sprintf(`Here is the current invoice draft as JSON:
%s

Apply this correction from the user:
%s

Rules:
- Preserve every field exactly as it is unless the correction explicitly asks to change it.
- Never change a unit_price unless the correction states a new price.
- Never change a quantity unless the correction asks for it.
- Never add or remove line items unless the correction asks for it.
- Keep each item_type unless the correction asks to reclassify; classify any newly added item using the labour/material rules.
- Populate changes_summary with one short human-readable bullet per change actually made, for example "Changed labour hours from 2 to 2.5". Leave it empty if nothing changed.

%s`, string(current), correctionText, draftSchemaDescription)
}

const draftSystemPrompt = `You are an invoicing assistant for Australian tradespeople. You convert spoken job descriptions into structured invoice drafts and apply corrections to them. You respond only with JSON conforming to the requested schema.`
