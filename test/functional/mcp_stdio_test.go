package functional_test

import (
	"context"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"
)

// stdioSession wraps an MCP client session for stdio transport testing
type stdioSession struct {
	session *sdkmcp.ClientSession
	cancel  context.CancelFunc
}

func newStdioSession(t *testing.T) *stdioSession {
	t.Helper()
	return newStdioSessionWithEnv(t, nil)
}

func newStdioSessionWithEnv(t *testing.T, extraEnv []string) *stdioSession {
	t.Helper()

	binaryPath := "./bin/worklog"
	if _, err := os.Stat(binaryPath); os.IsNotExist(err) {
		binaryPath = "../../bin/worklog"
		if _, err := os.Stat(binaryPath); os.IsNotExist(err) {
			t.Skip("Server binary not found. Run 'go build -o bin/worklog ./cmd/worklog' first.")
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)

	cmd := exec.CommandContext(ctx, binaryPath, "mcp")
	cmd.Env = append(os.Environ(),
		"WORKLOG_DB_PATH=:memory:",
		"WORKLOG_AUTH_ENABLED=false",
		"WORKLOG_DEFAULT_OWNER=local",
	)
	cmd.Env = append(cmd.Env, extraEnv...)

	transport := &sdkmcp.CommandTransport{Command: cmd}

	client := sdkmcp.NewClient(&sdkmcp.Implementation{
		Name:    "test-client",
		Version: "1.0.0",
	}, nil)

	session, err := client.Connect(ctx, transport, nil)
	if err != nil {
		cancel()
		t.Fatalf("Failed to connect: %v", err)
	}

	t.Cleanup(func() {
		session.Close()
		cancel()
	})

	return &stdioSession{session: session, cancel: cancel}
}

func (s *stdioSession) callTool(t *testing.T, name string, args map[string]any) json.RawMessage {
	t.Helper()
	payload, toolErr, err := callTool(s.session, name, args)
	require.NoError(t, err, "CallTool %s failed", name)
	require.Empty(t, toolErr, "Tool %s returned error", name)
	return payload
}

func (s *stdioSession) taskTypeID(t *testing.T, name string) string {
	t.Helper()
	var resp struct {
		TaskTypes []struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"task_types"`
	}
	require.NoError(t, json.Unmarshal(s.callTool(t, "list_task_types", nil), &resp))
	for _, tt := range resp.TaskTypes {
		if tt.Name == name {
			return tt.ID
		}
	}
	t.Fatalf("task type %q not found", name)
	return ""
}

func TestStdioFunctional_DefaultOwnerIsSeeded(t *testing.T) {
	s := newStdioSession(t)

	require.NotEmpty(t, s.taskTypeID(t, "Deep Work"))
	require.NotEmpty(t, s.taskTypeID(t, "Meeting"))
}

func TestStdioFunctional_StartInterruptStop(t *testing.T) {
	s := newStdioSession(t)

	_ = s.callTool(t, "start_session", map[string]any{"task_type_id": s.taskTypeID(t, "Deep Work")})

	_, toolErr, err := callTool(s.session, "start_session", map[string]any{"task_type_id": s.taskTypeID(t, "Email")})
	require.NoError(t, err)
	require.Contains(t, toolErr, "SESSION_ALREADY_OPEN")

	var switched struct {
		InterruptedTask struct {
			EndTime     string `json:"end_time"`
			Interrupted bool   `json:"interrupted"`
		} `json:"interrupted_task"`
		NewTask struct {
			StartTime string `json:"start_time"`
		} `json:"new_task"`
	}
	require.NoError(t, json.Unmarshal(s.callTool(t, "interrupt_session", map[string]any{"task_type_id": s.taskTypeID(t, "Email")}), &switched))
	require.True(t, switched.InterruptedTask.Interrupted)
	require.Equal(t, switched.InterruptedTask.EndTime, switched.NewTask.StartTime)

	_ = s.callTool(t, "stop_session", nil)

	var list struct {
		Sessions []struct {
			Open bool `json:"open"`
		} `json:"sessions"`
	}
	require.NoError(t, json.Unmarshal(s.callTool(t, "list_sessions", nil), &list))
	require.Len(t, list.Sessions, 2)
	for _, sess := range list.Sessions {
		require.False(t, sess.Open)
	}
}

func TestStdioFunctional_Heatmap(t *testing.T) {
	s := newStdioSession(t)

	var heatmap struct {
		Days []struct {
			Level int `json:"level"`
		} `json:"days"`
	}
	require.NoError(t, json.Unmarshal(s.callTool(t, "heatmap", nil), &heatmap))
	require.Len(t, heatmap.Days, 90)
	require.Equal(t, 0, heatmap.Days[0].Level)
}

func TestStdioFunctional_MCPProtocolCompliance(t *testing.T) {
	s := newStdioSession(t)

	initResult := s.session.InitializeResult()
	require.NotNil(t, initResult)
	require.NotNil(t, initResult.ServerInfo)
	require.Equal(t, "worklog", initResult.ServerInfo.Name)
	require.Equal(t, "0.1.0", initResult.ServerInfo.Version)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	tools, err := s.session.ListTools(ctx, nil)
	require.NoError(t, err)

	toolMap := make(map[string]*sdkmcp.Tool)
	for _, tool := range tools.Tools {
		toolMap[tool.Name] = tool
	}
	for _, name := range []string{"get_current_session", "start_session", "interrupt_session", "daily_summary"} {
		require.Contains(t, toolMap, name)
		require.NotEmpty(t, toolMap[name].Description)
	}
}

func TestStdioFunctional_LogFile(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "worklog.log")
	s := newStdioSessionWithEnv(t, []string{
		"WORKLOG_LOG_PATH=" + logPath,
		"WORKLOG_LOG_LEVEL=debug",
	})

	_ = s.callTool(t, "get_current_session", nil)

	require.Eventually(t, func() bool {
		data, err := os.ReadFile(logPath)
		if err != nil {
			return false
		}
		text := string(data)
		return strings.Contains(text, `msg="mcp traffic"`) &&
			strings.Contains(text, "stage=request") &&
			strings.Contains(text, "stage=response")
	}, 5*time.Second, 100*time.Millisecond)
}

func TestStdioFunctional_DocumentationResources(t *testing.T) {
	s := newStdioSession(t)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	resources, err := s.session.ListResources(ctx, nil)
	require.NoError(t, err)
	require.Len(t, resources.Resources, 1)
	require.Equal(t, "worklog://docs/workflow", resources.Resources[0].URI)
	require.Equal(t, "text/markdown", resources.Resources[0].MIMEType)

	read, err := s.session.ReadResource(ctx, &sdkmcp.ReadResourceParams{URI: "worklog://docs/workflow"})
	require.NoError(t, err)
	require.Len(t, read.Contents, 1)
	require.Contains(t, read.Contents[0].Text, "SESSION_ALREADY_OPEN")
}
