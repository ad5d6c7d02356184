package notify

import (
	"bytes"
	"html/template"
	"time"
)

const (
	subjectStart    = "🚧 Site is now under maintenance"
	subjectReminder = "⏰ Reminder: Maintenance ends in 24 hours"
	subjectEnd      = "✅ Maintenance completed - System restored"
)

const layout = `<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
{{block "body" .}}{{end}}
  <div style="margin-top: 20px; text-align: center; color: #6c757d; font-size: 12px;">
    <p>This is an automated {{.Kind}} from {{.Company}}</p>
  </div>
</div>`

const startBody = `{{define "body"}}
  <div style="background-color: #fff3cd; border: 1px solid #ffeaa7; border-radius: 8px; padding: 20px; margin-bottom: 20px;">
    <h2 style="color: #856404; margin: 0 0 10px 0;">🚧 Maintenance Mode Activated</h2>
    <p style="color: #856404; margin: 0;">The {{.Company}} system is now under maintenance.</p>
  </div>
  <div style="background-color: #f8f9fa; border-radius: 8px; padding: 20px;">
    <h3 style="color: #212529; margin: 0 0 15px 0;">Maintenance Details</h3>
    <ul style="color: #495057; margin: 0; padding-left: 20px;">
      <li><strong>Started:</strong> {{.Now}}</li>
      {{if .EndTime}}<li><strong>Expected End:</strong> {{.EndTime}}</li>{{end}}
      <li><strong>Status:</strong> System temporarily unavailable</li>
    </ul>
  </div>
  <div style="margin-top: 20px; padding: 15px; background-color: #e3f2fd; border-radius: 8px;">
    <p style="color: #1565c0; margin: 0; font-size: 14px;">
      <strong>Note:</strong> {{if .EndTime}}You will receive a reminder email 24 hours before maintenance ends.{{else}}No end time specified - manual notification required.{{end}}
    </p>
  </div>
{{end}}`

const reminderBody = `{{define "body"}}
  <div style="background-color: #fff3cd; border: 1px solid #ffeaa7; border-radius: 8px; padding: 20px; margin-bottom: 20px;">
    <h2 style="color: #856404; margin: 0 0 10px 0;">⏰ Maintenance Ending Soon</h2>
    <p style="color: #856404; margin: 0;">This is a reminder that maintenance will end in approximately 24 hours.</p>
  </div>
  <div style="background-color: #f8f9fa; border-radius: 8px; padding: 20px;">
    <h3 style="color: #212529; margin: 0 0 15px 0;">Maintenance Schedule</h3>
    <ul style="color: #495057; margin: 0; padding-left: 20px;">
      <li><strong>Expected End:</strong> {{.EndTime}}</li>
      <li><strong>Time Remaining:</strong> Approximately 24 hours</li>
      <li><strong>Current Status:</strong> Still under maintenance</li>
    </ul>
  </div>
  <div style="margin-top: 20px; padding: 15px; background-color: #d4edda; border-radius: 8px;">
    <p style="color: #155724; margin: 0; font-size: 14px;">
      <strong>Action Required:</strong> Please prepare for system restoration and ensure all maintenance tasks are completed on schedule.
    </p>
  </div>
{{end}}`

const endBody = `{{define "body"}}
  <div style="background-color: #d4edda; border: 1px solid #c3e6cb; border-radius: 8px; padding: 20px; margin-bottom: 20px;">
    <h2 style="color: #155724; margin: 0 0 10px 0;">✅ Maintenance Completed</h2>
    <p style="color: #155724; margin: 0;">The {{.Company}} system maintenance has been completed and the system is now operational.</p>
  </div>
  <div style="background-color: #f8f9fa; border-radius: 8px; padding: 20px;">
    <h3 style="color: #212529; margin: 0 0 15px 0;">System Status</h3>
    <ul style="color: #495057; margin: 0; padding-left: 20px;">
      <li><strong>Completed:</strong> {{.Now}}</li>
      <li><strong>Status:</strong> System fully operational</li>
      <li><strong>Access:</strong> All users can now access the system</li>
    </ul>
  </div>
{{end}}`

var templates = map[string]*template.Template{
	KindStart:    template.Must(template.Must(template.New(KindStart).Parse(layout)).Parse(startBody)),
	KindReminder: template.Must(template.Must(template.New(KindReminder).Parse(layout)).Parse(reminderBody)),
	KindEnd:      template.Must(template.Must(template.New(KindEnd).Parse(layout)).Parse(endBody)),
}

var footers = map[string]string{
	KindStart:    "message",
	KindReminder: "reminder",
	KindEnd:      "notification",
}

const timeLayout = "Jan 2, 2006 3:04 PM"

type templateData struct {
	Company string
	Kind    string
	Now     string
	EndTime string
}

func render(kind, company string, now time.Time, endTime *time.Time) (string, error) {
	data := templateData{
		Company: company,
		Kind:    footers[kind],
		Now:     now.Local().Format(timeLayout),
	}
	if endTime != nil {
		data.EndTime = endTime.Local().Format(timeLayout)
	}

	var buf bytes.Buffer
	if err := templates[kind].Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
