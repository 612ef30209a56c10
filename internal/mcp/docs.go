package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `worklog tracks where working time goes as a series of sessions.

Core concepts:
- Task type: a named category (Deep Work, Email, ...). Sessions are attributed to one.
- Session: a contiguous interval. At most one session is open (no end time) at any moment.
- Interrupt: closes the open session as interrupted and starts the next one at the same instant.

Default workflow:
1) Call get_current_session to see what is running.
2) Call list_task_types to pick a task_type_id.
3) start_session when idle, interrupt_session to switch, stop_session when done.
4) Fix mistakes with edit_session.
5) Report with daily_summary / weekly_summary / monthly_summary / heatmap.

Errors carry a stable code. Only STORE_UNAVAILABLE is retryable.

Docs:
- worklog://docs/workflow
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "worklog://docs/workflow",
		Name:        "docs_workflow",
		Title:       "worklog workflow",
		Description: "Session lifecycle, error codes, and how summaries are computed.",
		Content: `# worklog workflow

## Session lifecycle

| Tool | When idle | When a session is open |
|------|-----------|------------------------|
| ` + "`start_session`" + ` | opens a session | fails: SESSION_ALREADY_OPEN |
| ` + "`stop_session`" + ` | fails: NO_ACTIVE_SESSION | closes it now |
| ` + "`interrupt_session`" + ` | opens a session | closes it as interrupted, opens the new one at the same instant |

The closed session and the new one share a boundary timestamp, so there is
never a gap or an overlap between them.

## Editing

` + "`edit_session`" + ` accepts any of start_time, end_time, and notes.
Timestamps are RFC 3339. The end must not precede the start, and neither may
lie in the future. Setting end_time on the open session closes it. Edited
sessions are flagged edited_by_user.

## Error codes

- SESSION_ALREADY_OPEN, NO_ACTIVE_SESSION: state conflicts, not retryable.
- INVALID_TASK_TYPE: unknown or archived task type.
- INVALID_TIME_RANGE, INVALID_INPUT, INVALID_DATE, INVALID_RANGE: fix the arguments.
- NOT_FOUND: the session does not belong to you or does not exist.
- STORE_UNAVAILABLE: retry with backoff.

## Summaries

Dates are YYYY-MM-DD in the server's reporting time zone. A session that
crosses midnight counts toward each day it covers. The open session counts up
to now. task_count counts distinct sessions that touch the range, and
interrupted_count those among them that were interrupted.

Heatmap levels: 0 for no time, then 1 to 4 by hours tracked that day.
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
