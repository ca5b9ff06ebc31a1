package notifier

import (
	"fmt"
	"log"

	"github.com/bwmarrin/discordgo"
	"github.com/sws-safaris/booking-api/internal/models"
)

// Notifier is the surface that renders transition results for humans.
// Implementations must never be load-bearing: a failed notification is
// logged, not propagated.
type Notifier interface {
	NotifyTransition(reservation models.Reservation, code, message string) error
	NotifyInquiry(inquiry models.BookingInquiry) error
}

type DiscordNotifier struct {
	session   *discordgo.Session
	channelID string
}

func NewDiscordNotifier(session *discordgo.Session, channelID string) *DiscordNotifier {
	return &DiscordNotifier{
		session:   session,
		channelID: channelID,
	}
}

func (n *DiscordNotifier) send(message string) error {
	if n.session == nil {
		return fmt.Errorf("discord session is nil")
	}
	if n.channelID == "" {
		return fmt.Errorf("discord channel ID is empty")
	}

	_, err := n.session.ChannelMessageSend(n.channelID, message)
	if err != nil {
		log.Printf("Failed to send discord message: %v", err)
		return err
	}
	return nil
}

func (n *DiscordNotifier) NotifyTransition(reservation models.Reservation, code, message string) error {
	msg := fmt.Sprintf("🏕️ **Reservation Update**\n**Guest:** %s\n**Reference:** %s\n**Status:** %s\n**Dates:** %s - %s\n**People:** %d (%d adults, %d children)\n%s",
		reservation.CustomerName,
		reservation.Reference,
		reservation.Status,
		reservation.CheckInDate.Format("2006-01-02"),
		reservation.CheckOutDate.Format("2006-01-02"),
		reservation.TotalPeople,
		reservation.Adults,
		reservation.Children,
		message,
	)
	return n.send(msg)
}

func (n *DiscordNotifier) NotifyInquiry(inquiry models.BookingInquiry) error {
	msg := fmt.Sprintf("📩 **New Booking Inquiry**\n**Guest:** %s\n**Dates:** %s - %s\n**Accommodation:** %s\n**Proposed total:** %s",
		inquiry.CustomerName,
		inquiry.CheckInDate.Format("2006-01-02"),
		inquiry.CheckOutDate.Format("2006-01-02"),
		inquiry.AccommodationType,
		inquiry.ProposedTotalCost.StringFixed(2),
	)
	return n.send(msg)
}
