package notifications

import (
	"fmt"
	"html"
	"time"
)

type Email struct {
	Subject string
	HTML    string
}

func OrderPlacedForStudent(orderTitle, reference string, deliveryDate time.Time) Email {
	return Email{
		Subject: "Your order has been placed",
		HTML: fmt.Sprintf("<h1>Order %s confirmed</h1><p>Your payment was received and <b>%s</b> is now in progress. Expected delivery: %s.</p>",
			html.EscapeString(reference), html.EscapeString(orderTitle), deliveryDate.Format("January 2, 2006")),
	}
}

func OrderPlacedForTutor(orderTitle, reference, studentName string, deliveryDate time.Time) Email {
	return Email{
		Subject: "You have a new order!",
		HTML: fmt.Sprintf("<h1>New order %s</h1><p>%s ordered <b>%s</b>. Please deliver by %s.</p>",
			html.EscapeString(reference), html.EscapeString(studentName), html.EscapeString(orderTitle), deliveryDate.Format("January 2, 2006")),
	}
}

func OrderStatusChanged(orderTitle, reference, status string) Email {
	return Email{
		Subject: "Order " + reference + " was updated",
		HTML: fmt.Sprintf("<h1>Order update</h1><p><b>%s</b> (%s) is now <b>%s</b>.</p>",
			html.EscapeString(orderTitle), html.EscapeString(reference), html.EscapeString(status)),
	}
}

func NewReview(rating int, comment string) Email {
	body := fmt.Sprintf("<h1>New review</h1><p>A student rated your work %d/5.</p>", rating)
	if comment != "" {
		body += "<blockquote>" + html.EscapeString(comment) + "</blockquote>"
	}
	return Email{Subject: "You received a new review", HTML: body}
}

func DeliveryReminder(orderTitle, reference string, deliveryDate time.Time) Email {
	return Email{
		Subject: "Reminder: order " + reference + " is due soon",
		HTML: fmt.Sprintf("<h1>Delivery reminder</h1><p><b>%s</b> is due on %s.</p>",
			html.EscapeString(orderTitle), deliveryDate.Format(time.RFC1123)),
	}
}

func PasswordReset(resetLink string) Email {
	return Email{
		Subject: "Your Password Reset Link",
		HTML: fmt.Sprintf("<h1>Password Reset</h1><p>Click the link below to reset your password. This link is valid for 15 minutes.</p><p><a href='%s'>Reset Password</a></p>",
			html.EscapeString(resetLink)),
	}
}
