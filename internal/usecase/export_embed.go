package usecase

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/oniisama/embedforge/pkg/domain"
	"github.com/oniisama/embedforge/pkg/logger"
	"github.com/oniisama/embedforge/pkg/metrics"
)

// ExportFormat identifies an export target.
type ExportFormat string

const (
	ExportFormatJSON   ExportFormat = "json"
	ExportFormatPython ExportFormat = "python"
	ExportFormatNodeJS ExportFormat = "nodejs"
)

// ExportEmbedUseCase renders an embed as a ready-to-use artifact: the raw
// webhook payload or a code snippet that posts it.
type ExportEmbedUseCase struct {
	metrics *metrics.EmbedMetrics
	logger  logger.Logger
}

// NewExportEmbedUseCase creates a new export embed use case. The metrics
// recorder may be nil.
func NewExportEmbedUseCase(m *metrics.EmbedMetrics, logger logger.Logger) *ExportEmbedUseCase {
	return &ExportEmbedUseCase{
		metrics: m,
		logger:  logger,
	}
}

// ExportEmbedCommand represents the command to export an embed.
type ExportEmbedCommand struct {
	Embed  *domain.Embed
	Format ExportFormat
}

// ExportEmbedResult carries the rendered artifact and a suggested file
// extension for it.
type ExportEmbedResult struct {
	Content   string
	Extension string
}

// Execute renders the embed in the requested format. The embed is
// serialized as it would go over the wire, so unset and unusable values
// are already filtered out of the artifact.
func (uc *ExportEmbedUseCase) Execute(ctx context.Context, cmd ExportEmbedCommand) (*ExportEmbedResult, error) {
	if cmd.Embed == nil {
		return nil, fmt.Errorf("embed cannot be nil")
	}

	wire := cmd.Embed.WirePayload()

	var result *ExportEmbedResult
	var err error
	switch cmd.Format {
	case ExportFormatJSON:
		result, err = renderJSON(wire)
	case ExportFormatPython:
		result, err = renderPython(wire)
	case ExportFormatNodeJS:
		result, err = renderNodeJS(wire)
	default:
		return nil, fmt.Errorf("unsupported export format: %q", cmd.Format)
	}
	if err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.RecordExport(string(cmd.Format))
	}

	uc.logger.WithFields(map[string]interface{}{
		"format": cmd.Format,
		"bytes":  len(result.Content),
	}).Info("Embed exported")

	return result, nil
}

// renderJSON produces the webhook payload document itself.
func renderJSON(wire domain.EmbedPayload) (*ExportEmbedResult, error) {
	payload := struct {
		Embeds []domain.EmbedPayload `json:"embeds"`
	}{Embeds: []domain.EmbedPayload{wire}}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode payload: %w", err)
	}

	return &ExportEmbedResult{Content: string(data) + "\n", Extension: ".json"}, nil
}

// renderPython produces a requests-based script that posts the embed.
func renderPython(wire domain.EmbedPayload) (*ExportEmbedResult, error) {
	embedJSON, err := json.MarshalIndent(wire, "", "    ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode embed: %w", err)
	}

	content := fmt.Sprintf(`import requests

webhook_url = "YOUR_WEBHOOK_URL_HERE"

embed = %s

payload = {"embeds": [embed]}

response = requests.post(webhook_url, json=payload)
print(f"Status: {response.status_code}")
`, embedJSON)

	return &ExportEmbedResult{Content: content, Extension: ".py"}, nil
}

// renderNodeJS produces an axios-based script that posts the embed.
func renderNodeJS(wire domain.EmbedPayload) (*ExportEmbedResult, error) {
	embedJSON, err := json.MarshalIndent(wire, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode embed: %w", err)
	}

	content := fmt.Sprintf(`const axios = require('axios');

const webhookURL = 'YOUR_WEBHOOK_URL_HERE';

const embed = %s;

const payload = { embeds: [embed] };

axios.post(webhookURL, payload)
  .then(response => console.log('Sent!'))
  .catch(error => console.error('Error:', error));
`, embedJSON)

	return &ExportEmbedResult{Content: content, Extension: ".js"}, nil
}
