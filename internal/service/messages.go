package service

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// User-facing replies
const (
	msgInvalidPurchaseType   = "Invalid purchase type."
	msgProductNotFound       = "Sorry, that product could not be found."
	msgProviderNotConfigured = "The payment provider for physical goods is not configured."
	msgInvoiceFailed         = "Sorry, there was an error creating your payment request."
	msgContactSupport        = "There was an issue processing your purchase. Please contact support."
)

var printer = message.NewPrinter(language.English)

func welcomeMessage(chatID int64) string {
	return fmt.Sprintf("Welcome to RewardPlay! Your Chat ID is: %d. You can use this to link your account in the app.", chatID)
}

func coinsAddedMessage(amount int64) string {
	return printer.Sprintf("Thank you for your purchase! %d coins have been added to your account.", amount)
}

func spinsAddedMessage(amount int64) string {
	return printer.Sprintf("Thank you for your purchase! %d spins have been added to your account.", amount)
}

func stickerPackUnlockedMessage(name string) string {
	return fmt.Sprintf("Thank you for your purchase! You've unlocked the \"%s\" sticker pack.", name)
}

func insufficientCoinsMessage(name string) string {
	return fmt.Sprintf("Sorry, you do not have enough coins to purchase the \"%s\" sticker pack.", name)
}

func physicalOrderMessage(name string) string {
	return fmt.Sprintf("Thank you for your purchase! Your order for \"%s\" has been received and will be shipped to the address you provided.", name)
}
