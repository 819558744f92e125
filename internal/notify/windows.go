package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/unsafe9/claude-tmux-hop/internal/model"
	"github.com/unsafe9/claude-tmux-hop/internal/mux"
)

// PowerShell startup is slow enough that the default command timeout
// produces false failures, so these calls get a longer bound.
const powershellTimeout = 10 * time.Second

// toastScript shows a Windows 10+ toast. The XML goes through a literal
// here-string, so the text nodes only need XML escaping.
const toastScript = `
[Windows.UI.Notifications.ToastNotificationManager, Windows.UI.Notifications, ContentType = WindowsRuntime] | Out-Null
[Windows.Data.Xml.Dom.XmlDocument, Windows.Data.Xml.Dom.XmlDocument, ContentType = WindowsRuntime] | Out-Null
$template = @'
<toast>
    <visual>
        <binding template="ToastText02">
            <text id="1">%s</text>
            <text id="2">%s</text>
        </binding>
    </visual>
</toast>
'@
$xml = New-Object Windows.Data.Xml.Dom.XmlDocument
$xml.LoadXml($template)
$toast = [Windows.UI.Notifications.ToastNotification]::new($xml)
[Windows.UI.Notifications.ToastNotificationManager]::CreateToastNotifier('Claude Code').Show($toast)
`

const appActivateScript = `
$wshell = New-Object -ComObject WScript.Shell
$wshell.AppActivate('%s')
`

const foregroundWindowScript = `
Add-Type @"
using System;
using System.Runtime.InteropServices;
using System.Text;

public class Win32 {
    [DllImport("user32.dll")]
    public static extern IntPtr GetForegroundWindow();

    [DllImport("user32.dll")]
    public static extern int GetWindowText(IntPtr hWnd, StringBuilder text, int count);
}
"@

$hwnd = [Win32]::GetForegroundWindow()
$sb = New-Object System.Text.StringBuilder 256
[void][Win32]::GetWindowText($hwnd, $sb, 256)
$sb.ToString()
`

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

// Windows notifies through PowerShell toast notifications and focuses
// windows through WScript.Shell COM automation.
type Windows struct {
	r mux.Runner
}

// Notify shows a toast. Click-to-focus would need a registered URI
// protocol handler, so onClick is ignored here.
func (w *Windows) Notify(ctx context.Context, title, body string, _ *model.PaneContext) error {
	script := fmt.Sprintf(toastScript, xmlEscaper.Replace(title), xmlEscaper.Replace(body))
	_, err := w.powershell(ctx, script)
	return err
}

// Focus activates the window by title. AppActivate prints its boolean
// result instead of failing, so the output decides the outcome.
func (w *Windows) Focus(ctx context.Context, app, session string, pane *model.PaneContext) error {
	script := fmt.Sprintf(appActivateScript, escapePowerShell(app))
	out, err := w.powershell(ctx, script)
	if err != nil {
		return err
	}
	if !strings.Contains(out, "True") {
		return fmt.Errorf("no window matched %q", app)
	}
	switchPane(ctx, w.r, pane)
	return nil
}

func (w *Windows) Focused(ctx context.Context, app, session string) bool {
	out, err := w.powershell(ctx, foregroundWindowScript)
	if err != nil {
		return false
	}
	title := strings.TrimSpace(out)
	if title == "" {
		return false
	}
	search := session
	if search == "" {
		search = app
	}
	if search == "" {
		return false
	}
	return strings.Contains(strings.ToLower(title), strings.ToLower(search))
}

func (w *Windows) powershell(ctx context.Context, script string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, powershellTimeout)
	defer cancel()
	return w.r.Run(ctx, "powershell", "-NoProfile", "-NonInteractive", "-Command", script)
}

// escapePowerShell doubles single quotes, the only escape needed inside
// a single-quoted PowerShell string.
func escapePowerShell(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
