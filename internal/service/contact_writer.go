package service

import (
	"context"

	"github.com/octobees/contacts-hub/internal/entity"
	"github.com/octobees/contacts-hub/internal/repository"
)

// ContactWriter persists a contact followed by its emails and phones.
type ContactWriter struct {
	phoneRegion string
}

// NewContactWriter builds a writer that normalizes phones for region.
func NewContactWriter(phoneRegion string) *ContactWriter {
	if phoneRegion == "" {
		phoneRegion = defaultPhoneRegion
	}
	return &ContactWriter{phoneRegion: phoneRegion}
}

// Write inserts contact, then one row per email and per phone in the given
// order. The stored children are appended to contact.Emails and contact.Phones.
func (w *ContactWriter) Write(ctx context.Context, store repository.ContactStore, contact *entity.Contact, emails []entity.EmailAddress, phones []entity.PhoneNumber) error {
	if err := store.InsertContact(ctx, contact); err != nil {
		return err
	}

	contact.Emails = make([]entity.EmailAddress, 0, len(emails))
	for _, email := range emails {
		email.ContactID = contact.ID
		email.Email = normalizeEmail(email.Email)
		if email.Type == "" {
			email.Type = entity.EmailTypePrimary
		}
		if err := store.InsertEmail(ctx, &email); err != nil {
			return err
		}
		contact.Emails = append(contact.Emails, email)
	}

	contact.Phones = make([]entity.PhoneNumber, 0, len(phones))
	for _, phone := range phones {
		phone.ContactID = contact.ID
		if phone.Type == "" {
			phone.Type = entity.PhoneTypeWork
		}
		phone.E164 = normalizePhone(phone.Phone, w.phoneRegion)
		if err := store.InsertPhone(ctx, &phone); err != nil {
			return err
		}
		contact.Phones = append(contact.Phones, phone)
	}
	return nil
}
