package email

// bookingTemplate is the work order the dispatch desk receives the moment a
// conversation collects its last required field.
const bookingTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
            line-height: 1.6;
            color: #333;
            max-width: 600px;
            margin: 0 auto;
            padding: 20px;
        }
        .header {
            background: #1d4ed8;
            color: white;
            padding: 24px;
            border-radius: 8px 8px 0 0;
        }
        .header h1 { margin: 0; font-size: 20px; }
        .content {
            background: #ffffff;
            padding: 24px;
            border: 1px solid #e5e7eb;
            border-top: none;
            border-radius: 0 0 8px 8px;
        }
        table { width: 100%; border-collapse: collapse; }
        td { padding: 6px 0; vertical-align: top; }
        td.label { color: #6b7280; width: 160px; }
        .fee { margin-top: 16px; color: #6b7280; font-size: 13px; }
    </style>
</head>
<body>
    <div class="header">
        <h1>New booking for {{.TenantName}}</h1>
    </div>
    <div class="content">
        <table>
            <tr><td class="label">Customer</td><td>{{.CustomerName}}</td></tr>
            <tr><td class="label">Appliance</td><td>{{.Appliance}}</td></tr>
            <tr><td class="label">Issue</td><td>{{.Issue}}</td></tr>
            <tr><td class="label">Address</td><td>{{.StreetAddress}}, {{.City}} {{.ZipCode}}</td></tr>
            <tr><td class="label">Callback</td><td>{{.Callback}}</td></tr>
            <tr><td class="label">Preferred time</td><td>{{.PreferredTime}}</td></tr>
        </table>
        <p class="fee">Diagnostic fee {{.DiagnosticFee}}, credited toward the repair.</p>
    </div>
</body>
</html>
`
