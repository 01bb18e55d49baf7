package service

import (
	"rewardplay-bot/internal/models"

	"github.com/shopspring/decimal"
)

var (
	// Approx. 1 USD = 113 Telegram Stars
	usdToStarsRate = decimal.NewFromInt(113)
	// 1000 coins = 1 USD
	coinToUSDRate  = decimal.New(1, -3)
	centsPerDollar = decimal.NewFromInt(100)
)

// Telegram refuses Stars invoices below one star
const minStarsAmount = 1

// StarsFromUSD converts a USD price to Telegram Stars
func StarsFromUSD(price decimal.Decimal) int64 {
	return atLeastOneStar(price.Mul(usdToStarsRate))
}

// StarsFromCoins converts an in-app coin price to Telegram Stars
func StarsFromCoins(coins decimal.Decimal) int64 {
	return atLeastOneStar(coins.Mul(coinToUSDRate).Mul(usdToStarsRate))
}

// CentsFromUSD converts a USD price to cents
func CentsFromUSD(price decimal.Decimal) int64 {
	return price.Mul(centsPerDollar).Round(0).IntPart()
}

// CoinCost is the number of whole coins a sticker pack costs. Fractional
// prices round up.
func CoinCost(price decimal.Decimal) int64 {
	return price.Ceil().IntPart()
}

func atLeastOneStar(v decimal.Decimal) int64 {
	stars := v.Round(0).IntPart()
	if stars < minStarsAmount {
		return minStarsAmount
	}
	return stars
}

// QuoteProduct computes the invoice price for a product
func QuoteProduct(p *models.Product) models.Quote {
	if p.IsPhysical() {
		return models.Quote{
			Currency:     models.CurrencyUSD,
			Amount:       CentsFromUSD(p.Price),
			NeedShipping: true,
		}
	}

	if p.Catalog == models.CatalogStickerPacks {
		return models.Quote{Currency: models.CurrencyStars, Amount: StarsFromCoins(p.Price)}
	}
	return models.Quote{Currency: models.CurrencyStars, Amount: StarsFromUSD(p.Price)}
}
