package notify

import (
	"fmt"
	"strings"

	"innkeep/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// sender is the subset of the bot API used for outgoing messages.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramNotifier pushes booking announcements to a staff chat.
type TelegramNotifier struct {
	bot    sender
	chatID int64
	logger zerolog.Logger
}

func NewTelegramNotifier(token string, chatID int64, logger *zerolog.Logger) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	return &TelegramNotifier{
		bot:    bot,
		chatID: chatID,
		logger: logger.With().Str("component", "notify").Logger(),
	}, nil
}

func (n *TelegramNotifier) BookingCreated(booking *models.Booking, roomIDs []int64, total int64) error {
	msg := tgbotapi.NewMessage(n.chatID, formatBookingMessage(booking, roomIDs, total))
	if _, err := n.bot.Send(msg); err != nil {
		n.logger.Error().Err(err).Int64("booking_id", booking.ID).Msg("notify: send error")
		return fmt.Errorf("failed to send telegram message: %w", err)
	}
	return nil
}

func formatBookingMessage(b *models.Booking, roomIDs []int64, total int64) string {
	rooms := make([]string, 0, len(roomIDs))
	for _, id := range roomIDs {
		rooms = append(rooms, fmt.Sprintf("%d", id))
	}

	var sb strings.Builder
	sb.WriteString("New booking\n")
	sb.WriteString(fmt.Sprintf("#%d %s (%s)\n", b.ID, b.Name, b.Email))
	sb.WriteString(fmt.Sprintf("Checkin: %s\n", b.Checkin.Format("02.01.2006")))
	sb.WriteString(fmt.Sprintf("Checkout: %s\n", b.Checkout.Format("02.01.2006")))
	sb.WriteString(fmt.Sprintf("Rooms: %s\n", strings.Join(rooms, ", ")))
	sb.WriteString(fmt.Sprintf("Total: %d", total))
	return sb.String()
}
