package notify

import (
	"bytes"
	"html/template"

	"github.com/nebulia-tech/librairie/internal/model"
)

const reminderSubject = "📚 Rappel - Livre en retard - Librairie XYZ"

var reminderTmpl = template.Must(template.New("reminder").Parse(`<center>
<table style="width: 100%; max-width: 600px; margin: 0 auto; font-family: Arial, sans-serif; border-collapse: collapse;">
  <tr>
    <td style="background-color: #dc3545; padding: 20px; text-align: center; border-radius: 10px 10px 0 0;">
      <h1 style="color: white; margin: 0; font-size: 24px;">📚 Librairie XYZ</h1>
      <p style="color: white; margin: 5px 0 0 0; font-size: 14px;">Rappel de retour de livre</p>
    </td>
  </tr>
  <tr>
    <td style="background-color: #ffffff; padding: 30px;">
      <h2 style="color: #dc3545;">Bonjour {{.Name}},</h2>
      <div style="background-color: #f8d7da; border: 1px solid #f5c6cb; border-radius: 5px; padding: 15px; margin: 20px 0;">
        <p style="color: #721c24; margin: 0; font-weight: bold;">
          ⚠️ Votre emprunt est en retard de {{.DaysLate}} jour(s)
        </p>
      </div>
      <h3 style="color: #2c3e50;">Détails du livre emprunté :</h3>
      <table style="width: 100%; border-collapse: collapse; margin: 20px 0;">
        <tr style="background-color: #f8f9fa;">
          <td style="padding: 10px; border: 1px solid #dee2e6; font-weight: bold;">Titre :</td>
          <td style="padding: 10px; border: 1px solid #dee2e6;">{{.Title}}</td>
        </tr>
        <tr>
          <td style="padding: 10px; border: 1px solid #dee2e6; font-weight: bold;">Auteur :</td>
          <td style="padding: 10px; border: 1px solid #dee2e6;">{{.Author}}</td>
        </tr>
        <tr style="background-color: #f8f9fa;">
          <td style="padding: 10px; border: 1px solid #dee2e6; font-weight: bold;">Date de retour prévue :</td>
          <td style="padding: 10px; border: 1px solid #dee2e6; color: #dc3545; font-weight: bold;">{{.DueDate}}</td>
        </tr>
      </table>
      <div style="background-color: #d1ecf1; border: 1px solid #bee5eb; border-radius: 5px; padding: 15px; margin: 20px 0;">
        <p style="color: #0c5460; margin: 0;">
          <strong>Action requise :</strong> Veuillez retourner ce livre dès que possible à la librairie pour éviter des frais supplémentaires.
        </p>
      </div>
      <p style="color: #6c757d; font-size: 14px;">
        Si vous avez déjà retourné ce livre, veuillez ignorer ce message.
      </p>
    </td>
  </tr>
  <tr>
    <td style="background-color: #f8f9fa; padding: 20px; text-align: center; border-radius: 0 0 10px 10px; font-size: 12px; color: #6c757d;">
      <p style="margin: 0;">© 2025 Librairie XYZ. Tous droits réservés.</p>
      <p style="margin: 5px 0 0 0;">Cet email a été envoyé automatiquement. Merci de ne pas répondre à ce message.</p>
    </td>
  </tr>
</table>
</center>`))

type reminderData struct {
	Name     string
	Title    string
	Author   string
	DueDate  string
	DaysLate int
}

func renderReminder(c model.OverdueCandidate) (subject, html string, err error) {
	var buf bytes.Buffer
	err = reminderTmpl.Execute(&buf, reminderData{
		Name:     c.UserName,
		Title:    c.BookTitle,
		Author:   c.Author,
		DueDate:  c.DueAt.Format("02/01/2006"),
		DaysLate: c.DaysLate,
	})
	if err != nil {
		return "", "", err
	}
	return reminderSubject, buf.String(), nil
}
